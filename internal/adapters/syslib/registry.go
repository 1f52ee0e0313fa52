package syslib

// candidate is one way a header might be satisfied. When Pkg is set
// the linker flags come from a pkg-config query, with Flags as the
// fallback when pkg-config is unavailable.
type candidate struct {
	Pkg   string
	Flags []string
}

// registryEntry maps a well-known header to its candidate libraries.
// Direct entries are trusted without a probe compile.
type registryEntry struct {
	Direct     bool
	Candidates []candidate
}

// registry covers headers common enough that guessing from the file
// name would be wrong or wasteful.
var registry = map[string]registryEntry{
	"math.h": {
		Direct:     true,
		Candidates: []candidate{{Flags: []string{"-lm"}}},
	},
	"pthread.h": {
		Direct:     true,
		Candidates: []candidate{{Flags: []string{"-lpthread"}}},
	},
	"zlib.h": {
		Candidates: []candidate{{Pkg: "zlib", Flags: []string{"-lz"}}},
	},
	"png.h": {
		Candidates: []candidate{{Pkg: "libpng", Flags: []string{"-lpng"}}},
	},
	"curl/curl.h": {
		Candidates: []candidate{{Pkg: "libcurl", Flags: []string{"-lcurl"}}},
	},
	"sqlite3.h": {
		Candidates: []candidate{{Pkg: "sqlite3", Flags: []string{"-lsqlite3"}}},
	},
	"openssl/ssl.h": {
		Candidates: []candidate{{Pkg: "openssl", Flags: []string{"-lssl", "-lcrypto"}}},
	},
	"SDL2/SDL.h": {
		Candidates: []candidate{{Pkg: "sdl2", Flags: []string{"-lSDL2"}}},
	},
	"GL/gl.h": {
		Candidates: []candidate{{Pkg: "gl", Flags: []string{"-lGL"}}},
	},
	// Both the wide and the plain variant ship the same header name.
	"ncurses.h": {
		Candidates: []candidate{
			{Pkg: "ncursesw", Flags: []string{"-lncursesw"}},
			{Pkg: "ncurses", Flags: []string{"-lncurses"}},
		},
	},
}
