// Package enroll implements a school extracurricular enrollment backend:
// capacity-constrained activity signup plus the authentication primitives
// (bcrypt password hashing, JWT issuance, HTTP middleware) the API needs.
//
// Enrollment:
//   - Activities carry a fixed MaxParticipants capacity. SignupHandler and
//     UnregisterHandler run their duplicate and capacity checks inside a
//     single transaction, so a full activity never overbooks even under
//     concurrent requests.
//   - Signup with an unknown email lazily provisions a student account
//     without a password hash. Such accounts can enroll but cannot log in
//     until they register through the auth endpoints.
//
// Identity:
//   - Auther verifies credentials through an IdentityProvider and issues
//     HS256 bearer tokens via TokenService. The token subject is the account
//     email; uid and role travel as extension claims.
//   - UserProvider backs the IdentityProvider with the Users repository and
//     tracks failed login attempts with a cooldown window.
//
// HTTP:
//   - RegisterEnrollmentRoutes and RegisterAuthRoutes mount the listing,
//     signup, unregister, register, login, and profile endpoints onto a
//     go-router Router. ProtectedRoute wires the jwtware middleware for the
//     routes that require a bearer token.
package enroll
