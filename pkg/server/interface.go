/*
Package server implements msgpack IPC for prefixrank completion services.

The server reads msgpack requests from stdin and writes one msgpack response
per request to stdout. Requests are handled one at a time, in order, and every
response echoes the request ID. Logs never go to stdout.

# IPC

On start the server writes a ready frame:

	{"status": "ready"}

Every request carries an ID and an action. A request without an action is a
completion request:

	{"id": "req_001", "p": "he", "l": 3}

The server responds with suggestions, heaviest first. Each holds the value,
its weight and its 1-based rank; timing is in microseconds:

	{"id": "req_001", "s": [{"w": "he", "v": 109, "r": 1}, {"w": "hello", "v": 80, "r": 2}], "c": 2, "t": 41}

Entries can be inserted and removed at runtime. Inserting a known entry adds
to its weight; removing deletes every entry under the prefix:

	{"id": "m1", "action": "insert", "e": "hello there", "w": 2}
	{"id": "m2", "action": "remove", "p": "hel"}

Both answer with the number of entries affected:

	{"id": "m2", "status": "ok", "n": 3}

Stats and server limits:

	{"id": "s1", "action": "stats"}
	{"id": "c1", "action": "config", "max_limit": 32}

Config changes are saved to the active TOML file.

Errors come back as CompletionError with an HTTP-like code: 400 for a bad
request, 500 when handling the request failed inside the server. The server
keeps serving after either.
*/
package server

// Actions understood by the server.
const (
	ActionComplete = "complete"
	ActionInsert   = "insert"
	ActionRemove   = "remove"
	ActionStats    = "stats"
	ActionConfig   = "config"
)

// Request is the single request shape; which fields matter depends on Action.
type Request struct {
	ID        string  `msgpack:"id"`
	Action    string  `msgpack:"action,omitempty"`
	Prefix    string  `msgpack:"p,omitempty"`
	Limit     int     `msgpack:"l,omitempty"`
	Entry     string  `msgpack:"e,omitempty"`
	Weight    float64 `msgpack:"w,omitempty"`
	MaxLimit  *int    `msgpack:"max_limit,omitempty"`
	MinPrefix *int    `msgpack:"min_prefix,omitempty"`
	MaxPrefix *int    `msgpack:"max_prefix,omitempty"`
}

// CompletionSuggestion - minimal suggestion response
type CompletionSuggestion struct {
	Word   string  `msgpack:"w"`
	Weight float64 `msgpack:"v"`
	Rank   uint16  `msgpack:"r"`
}

// CompletionResponse - completion response
type CompletionResponse struct {
	ID          string                 `msgpack:"id"`
	Suggestions []CompletionSuggestion `msgpack:"s"`
	Count       int                    `msgpack:"c"`
	TimeTaken   int64                  `msgpack:"t"`
}

// MutationResponse answers insert and remove.
type MutationResponse struct {
	ID     string `msgpack:"id"`
	Status string `msgpack:"status"`
	Count  int    `msgpack:"n"`
}

// StatsResponse carries engine and server counters.
type StatsResponse struct {
	ID    string         `msgpack:"id"`
	Stats map[string]int `msgpack:"stats"`
}

// ConfigResponse - config operation response with the limits now in effect
type ConfigResponse struct {
	ID        string `msgpack:"id"`
	Status    string `msgpack:"status"`
	Error     string `msgpack:"error,omitempty"`
	MaxLimit  int    `msgpack:"max_limit"`
	MinPrefix int    `msgpack:"min_prefix"`
	MaxPrefix int    `msgpack:"max_prefix"`
}

// CompletionError holds basic error information for any failed request
type CompletionError struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
