package scope

// builtins are the global names defined by ECMAScript itself. Host globals
// (window, console, Phaser, ...) come from configuration instead.
var builtins = map[string]bool{
	"AggregateError":       true,
	"Array":                true,
	"ArrayBuffer":          true,
	"Atomics":              true,
	"BigInt":               true,
	"BigInt64Array":        true,
	"BigUint64Array":       true,
	"Boolean":              true,
	"DataView":             true,
	"Date":                 true,
	"decodeURI":            true,
	"decodeURIComponent":   true,
	"encodeURI":            true,
	"encodeURIComponent":   true,
	"Error":                true,
	"escape":               true,
	"eval":                 true,
	"EvalError":            true,
	"FinalizationRegistry": true,
	"Float32Array":         true,
	"Float64Array":         true,
	"Function":             true,
	"globalThis":           true,
	"Infinity":             true,
	"Int16Array":           true,
	"Int32Array":           true,
	"Int8Array":            true,
	"Intl":                 true,
	"isFinite":             true,
	"isNaN":                true,
	"Iterator":             true,
	"JSON":                 true,
	"Map":                  true,
	"Math":                 true,
	"NaN":                  true,
	"Number":               true,
	"Object":               true,
	"parseFloat":           true,
	"parseInt":             true,
	"Promise":              true,
	"Proxy":                true,
	"RangeError":           true,
	"ReferenceError":       true,
	"Reflect":              true,
	"RegExp":               true,
	"Set":                  true,
	"SharedArrayBuffer":    true,
	"String":               true,
	"Symbol":               true,
	"SyntaxError":          true,
	"TypeError":            true,
	"Uint16Array":          true,
	"Uint32Array":          true,
	"Uint8Array":           true,
	"Uint8ClampedArray":    true,
	"undefined":            true,
	"unescape":             true,
	"URIError":             true,
	"WeakMap":              true,
	"WeakRef":              true,
	"WeakSet":              true,
}

// IsBuiltin reports whether name is an ECMAScript global.
func IsBuiltin(name string) bool {
	return builtins[name]
}
