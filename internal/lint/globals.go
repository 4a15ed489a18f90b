package lint

// builtinGlobals are the ECMAScript and common host globals no-undef
// accepts without configuration.
var builtinGlobals = map[string]struct{}{}

func init() {
	for _, name := range []string{
		// ECMAScript
		"globalThis", "Infinity", "NaN", "undefined", "eval", "isFinite", "isNaN",
		"parseFloat", "parseInt", "decodeURI", "decodeURIComponent", "encodeURI",
		"encodeURIComponent", "escape", "unescape",
		"Object", "Function", "Boolean", "Symbol", "Error", "AggregateError", "EvalError",
		"RangeError", "ReferenceError", "SyntaxError", "TypeError", "URIError",
		"Number", "BigInt", "Math", "Date", "String", "RegExp", "Array", "Int8Array",
		"Uint8Array", "Uint8ClampedArray", "Int16Array", "Uint16Array", "Int32Array",
		"Uint32Array", "Float32Array", "Float64Array", "BigInt64Array", "BigUint64Array",
		"Map", "Set", "WeakMap", "WeakSet", "WeakRef", "FinalizationRegistry",
		"ArrayBuffer", "SharedArrayBuffer", "DataView", "Atomics", "JSON", "Promise",
		"Proxy", "Reflect", "Intl", "Iterator",
		// hosts
		"console", "setTimeout", "clearTimeout", "setInterval", "clearInterval",
		"queueMicrotask", "structuredClone", "fetch", "URL", "URLSearchParams",
		"TextEncoder", "TextDecoder", "AbortController", "AbortSignal",
	} {
		builtinGlobals[name] = struct{}{}
	}
}
