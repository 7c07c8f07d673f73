// Package hub talks to the vendor cloud hub that fronts the io-homecontrol
// gateway. It owns the HTTP session (login, cookie renewal), the setup
// download, command execution, and the event polling loop.
//
// The Client implements device.Executor so the typed models in the device
// package can send commands without knowing about HTTP. The Bridge sits on
// top: it turns the hub's setup into registered device models, feeds state
// events into the device registry, and classifies failures so the setup
// supervisor can tell a dead password from a cloud outage.
package hub
