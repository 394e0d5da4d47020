/*
Package server implements a stdin/stdout IPC for ranked prefix completion.

Clients write requests and read responses as a stream of msgpack messages, or
as newline delimited JSON when the server runs with the json codec. Both
codecs share the same short field names.

# IPC

Completion requests carry an ID, a prefix and an optional limit:

	{"id": "req_001", "p": "Ber", "l": 24}

The server answers with matches ranked by weight, heaviest first:

	{"id": "req_001", "s": [{"w": "Berlin, Germany", "r": 1, "wt": 3426354}, {"w": "Bern, Switzerland", "r": 2, "wt": 121631}], "c": 2, "t": 38}

"r" is the 1-based rank, "wt" the catalogue weight and "t" the lookup time in
microseconds. A prefix matching nothing yields an empty "s", not an error.

Requests with an action field are control messages:

	{"id": "info_001", "action": "get_info"}
	{"id": "ping", "action": "health"}

Failures are reported per request and never end the stream:

	{"id": "req_002", "e": "prefix exceeds maximum length of 200 bytes", "c": 400}

Only input that is not a msgpack message at all ends the stream, since there
is no way to find where the next message starts.

On start the server writes a single {"status": "ready"} message.

Limits, prefix bounds and input filtering come from the [server] section of
the config file, which is re-read while the server runs.
*/
package server

// Actions accepted in Request.Action.
const (
	ActionComplete = ""
	ActionInfo     = "get_info"
	ActionHealth   = "health"
)

// Request is any message a client can send.
type Request struct {
	ID     string `msgpack:"id" json:"id"`
	Prefix string `msgpack:"p" json:"p"`
	Limit  int    `msgpack:"l,omitempty" json:"l,omitempty"`
	Action string `msgpack:"action,omitempty" json:"action,omitempty"`
}

// CompletionSuggestion - one ranked match
type CompletionSuggestion struct {
	Word   string  `msgpack:"w" json:"w"`
	Rank   uint16  `msgpack:"r" json:"r"`
	Weight float64 `msgpack:"wt" json:"wt"`
}

// CompletionResponse - completion response
type CompletionResponse struct {
	ID          string                 `msgpack:"id" json:"id"`
	Suggestions []CompletionSuggestion `msgpack:"s" json:"s"`
	Count       int                    `msgpack:"c" json:"c"`
	TimeTaken   int64                  `msgpack:"t" json:"t"`
}

// InfoResponse - catalogue and server statistics
type InfoResponse struct {
	ID              string  `msgpack:"id" json:"id"`
	Status          string  `msgpack:"status" json:"status"`
	Terms           int     `msgpack:"terms" json:"terms"`
	MaxWeight       float64 `msgpack:"max_weight" json:"max_weight"`
	HotCacheEntries int     `msgpack:"hot_cache_entries" json:"hot_cache_entries"`
	HotCacheHits    int     `msgpack:"hot_cache_hits" json:"hot_cache_hits"`
	Requests        int     `msgpack:"requests" json:"requests"`
	MaxLimit        int     `msgpack:"max_limit" json:"max_limit"`
}

// StatusResponse - ready and health messages
type StatusResponse struct {
	ID     string `msgpack:"id,omitempty" json:"id,omitempty"`
	Status string `msgpack:"status" json:"status"`
}

// CompletionError holds basic error information for a failed request
type CompletionError struct {
	ID    string `msgpack:"id" json:"id"`
	Error string `msgpack:"e" json:"e"`
	Code  int    `msgpack:"c" json:"c"`
}
