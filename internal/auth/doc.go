// Package auth provides local API authentication for Hearth Core.
//
// It implements a 2-tier role model (user → admin) with:
//   - Argon2id password hashing (OWASP 2025 recommendation)
//   - Short-lived JWT access tokens signed with HS256
//   - A first-boot seeded admin account with a generated password
//
// There is no session store: access tokens are validated by signature and
// expiry only. Vendor-cloud credentials (hub account, streaming token) are
// configuration, not users, and never pass through this package.
package auth
