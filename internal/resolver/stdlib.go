package resolver

import "strings"

// IsStdlib reports whether an import target names the language's standard
// library. Used only to split the "dropped imports" summary statistic; both
// stdlib and third-party imports stay out of the graph either way.
func IsStdlib(language, target string) bool {
	switch language {
	case "python":
		head := target
		if i := strings.Index(target, "."); i >= 0 {
			head = target[:i]
		}
		return pythonStdlib[head]
	case "go":
		// Stdlib import paths have no dot in their first segment.
		head := target
		if i := strings.Index(target, "/"); i >= 0 {
			head = target[:i]
		}
		return head != "" && !strings.Contains(head, ".")
	case "javascript":
		return nodeBuiltins[strings.TrimPrefix(target, "node:")]
	}
	return false
}

var pythonStdlib = map[string]bool{
	"__future__": true,
	"abc":        true, "argparse": true, "array": true, "ast": true, "asyncio": true,
	"base64": true, "bisect": true, "builtins": true, "calendar": true,
	"collections": true, "concurrent": true, "configparser": true,
	"contextlib": true, "contextvars": true, "copy": true, "csv": true, "ctypes": true,
	"dataclasses": true, "datetime": true, "decimal": true, "difflib": true,
	"dis": true, "email": true, "enum": true, "errno": true, "fnmatch": true,
	"functools": true, "gc": true, "getpass": true, "glob": true, "gzip": true,
	"hashlib": true, "heapq": true, "hmac": true, "html": true, "http": true,
	"importlib": true, "inspect": true, "io": true, "ipaddress": true,
	"itertools": true, "json": true, "logging": true, "math": true,
	"mimetypes": true, "multiprocessing": true, "operator": true, "os": true,
	"pathlib": true, "pickle": true, "platform": true, "pprint": true,
	"queue": true, "random": true, "re": true, "secrets": true, "select": true,
	"shlex": true, "shutil": true, "signal": true, "site": true, "socket": true,
	"sqlite3": true, "ssl": true, "stat": true, "statistics": true,
	"string": true, "struct": true, "subprocess": true, "sys": true,
	"tempfile": true, "textwrap": true, "threading": true, "time": true,
	"tomllib": true, "traceback": true, "types": true, "typing": true,
	"unicodedata": true, "unittest": true, "urllib": true, "uuid": true,
	"venv": true, "warnings": true, "weakref": true, "xml": true,
	"zipfile": true, "zlib": true, "zoneinfo": true,
}

var nodeBuiltins = map[string]bool{
	"assert": true, "async_hooks": true, "buffer": true, "child_process": true,
	"cluster": true, "console": true, "crypto": true, "dgram": true,
	"dns": true, "events": true, "fs": true, "http": true, "http2": true,
	"https": true, "net": true, "os": true, "path": true, "perf_hooks": true,
	"process": true, "querystring": true, "readline": true, "stream": true,
	"string_decoder": true, "timers": true, "tls": true, "tty": true,
	"url": true, "util": true, "v8": true, "vm": true, "worker_threads": true,
	"zlib": true,
}
