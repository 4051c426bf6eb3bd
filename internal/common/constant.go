package common

// AuthorizationHeaderScheme is the scheme expected in the Authorization
// header of protected requests.
const AuthorizationHeaderScheme = "Bearer"

// DeprecationHeaderName marks responses served by deprecated route aliases.
const DeprecationHeaderName = "Deprecation"
