package engine

import (
	"net/http"
	"time"
)

// sharedHTTPClient is used by every network back-end (Cloud, Neural-GPU)
// instead of http.DefaultClient, which has no timeout. Per-call deadlines
// beyond this are applied via context.WithTimeout, not a second client.
var sharedHTTPClient = &http.Client{Timeout: 60 * time.Second}
