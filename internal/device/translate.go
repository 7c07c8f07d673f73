package device

// Vendor state names as reported by the hub. These are the hub's vocabulary;
// nothing outside this package should mention them.
const (
	stateClosure           = "core:ClosureState"
	stateSlateOrientation  = "core:SlateOrientationState"
	stateOpenClosed        = "core:OpenClosedState"
	stateMoving            = "core:MovingState"
	stateOnOff             = "core:OnOffState"
	stateLightIntensity    = "core:LightIntensityState"
	stateTemperature       = "core:TemperatureState"
	stateTargetTemperature = "core:TargetTemperatureState"
	stateOperatingMode     = "core:OperatingModeState"
	stateDHWMode           = "io:DHWModeState"
	stateAbsenceMode       = "io:AbsenceModeState"
	stateLockedUnlocked    = "core:LockedUnlockedState"
)

// Vendor command names accepted by the hub.
const (
	cmdOpen                 = "open"
	cmdClose                = "close"
	cmdStop                 = "stop"
	cmdSetClosure           = "setClosure"
	cmdSetOrientation       = "setOrientation"
	cmdOn                   = "on"
	cmdOff                  = "off"
	cmdSetIntensity         = "setIntensity"
	cmdSetTargetTemperature = "setTargetTemperature"
	cmdSetOperatingMode     = "setOperatingMode"
	cmdSetDHWMode           = "setDHWMode"
	cmdSetAbsenceMode       = "setAbsenceMode"
	cmdLock                 = "lock"
	cmdUnlock               = "unlock"
)

// Canonical climate modes.
const (
	ClimateModeAuto  = "auto"
	ClimateModeHeat  = "heat"
	ClimateModeEco   = "eco"
	ClimateModeOff   = "off"
	ClimateModeFrost = "frost_protection"
)

// climateModeFromVendor maps hub operating modes to canonical climate modes.
var climateModeFromVendor = map[string]string{
	"internalScheduling": ClimateModeAuto,
	"auto":               ClimateModeAuto,
	"comfort":            ClimateModeHeat,
	"basic":              ClimateModeHeat,
	"eco":                ClimateModeEco,
	"off":                ClimateModeOff,
	"frostprotection":    ClimateModeFrost,
}

// climateModeToVendor is the reverse mapping used when sending commands.
// Canonical modes that fold together on read (comfort/basic) map to one
// preferred vendor value on write.
var climateModeToVendor = map[string]string{
	ClimateModeAuto:  "internalScheduling",
	ClimateModeHeat:  "comfort",
	ClimateModeEco:   "eco",
	ClimateModeOff:   "off",
	ClimateModeFrost: "frostprotection",
}

// Canonical water heater modes.
const (
	WaterHeaterModeAuto        = "auto"
	WaterHeaterModeEco         = "eco"
	WaterHeaterModePerformance = "performance"
	WaterHeaterModeOff         = "off"
)

// dhwModeFromVendor maps hub domestic-hot-water modes to canonical modes.
var dhwModeFromVendor = map[string]string{
	"autoMode":          WaterHeaterModeAuto,
	"manualEcoActive":   WaterHeaterModeEco,
	"manualEcoInactive": WaterHeaterModePerformance,
	"stop":              WaterHeaterModeOff,
}

// dhwModeToVendor is the reverse mapping used when sending commands.
var dhwModeToVendor = map[string]string{
	WaterHeaterModeAuto:        "autoMode",
	WaterHeaterModeEco:         "manualEcoActive",
	WaterHeaterModePerformance: "manualEcoInactive",
	WaterHeaterModeOff:         "stop",
}

// positionFromClosure converts the vendor closure scale (0 open, 100 closed)
// to the canonical position scale (0 closed, 100 open).
func positionFromClosure(closure int) int {
	return 100 - closure
}

// closureFromPosition converts a canonical position to the vendor closure scale.
func closureFromPosition(position int) int {
	return 100 - position
}

// asInt coerces a vendor state value to int. The hub reports numbers as
// float64 after JSON decoding, but integration tests and cached setups may
// carry native ints.
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	default:
		return 0, false
	}
}

// asFloat coerces a vendor state value to float64.
func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

// asString coerces a vendor state value to string.
func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}
