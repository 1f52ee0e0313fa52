package domain

// ResolutionOrigin identifies which strategy produced a library resolution.
type ResolutionOrigin string

const (
	// OriginHint means the flags came from an explicit user hint.
	OriginHint ResolutionOrigin = "hint"
	// OriginRegistry means the flags came from the well-known header registry.
	OriginRegistry ResolutionOrigin = "registry"
	// OriginPkgConfig means the flags came from a pkg-config query.
	OriginPkgConfig ResolutionOrigin = "pkg-config"
	// OriginProbe means the flags were confirmed by a probe compile.
	OriginProbe ResolutionOrigin = "probe"
	// OriginCache means the flags came from the persisted resolution cache.
	OriginCache ResolutionOrigin = "cache"
)

// LibraryResolution maps one external include token to the linker
// flags that satisfy it.
type LibraryResolution struct {
	// Token is the external include as written, e.g. "curl/curl.h".
	Token string `json:"token"`

	// Flags are the linker flags, e.g. ["-lcurl"].
	Flags []string `json:"flags,omitempty"`

	Origin ResolutionOrigin `json:"origin,omitempty"`

	// Missing marks a token no strategy could satisfy.
	Missing bool `json:"missing,omitempty"`

	// Ambiguous marks a token that matched multiple candidate
	// packages; the first successful one was taken.
	Ambiguous bool `json:"ambiguous,omitempty"`
}
