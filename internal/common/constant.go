package common

const (
	// AuthorizationHeader is the HTTP header and the gRPC metadata key that
	// carries the bearer token.
	AuthorizationHeader = "Authorization"

	// AuthorizationMetadataKey is AuthorizationHeader as gRPC normalizes it.
	AuthorizationMetadataKey = "authorization"

	// BearerScheme is the only accepted authorization scheme.
	BearerScheme = "Bearer"
)
