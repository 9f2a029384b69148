package aem

import (
	"fmt"
	"net/http"

	"gopkg.in/dnaeon/go-vcr.v3/cassette"
	"gopkg.in/dnaeon/go-vcr.v3/recorder"
)

// NewRecorder opens (or creates) the named cassette. Known GET interactions are replayed,
// new ones are recorded through real. Every other method passes through unrecorded.
func NewRecorder(name string, real http.RoundTripper) (*recorder.Recorder, error) {
	opts := &recorder.Options{
		CassetteName:       name,
		Mode:               recorder.ModeReplayWithNewEpisodes,
		SkipRequestLatency: true,
		RealTransport:      real,
	}
	r, err := recorder.NewWithOptions(opts)
	if err != nil {
		return nil, fmt.Errorf("aem: couldn't set up go-vcr recording: %w", err)
	}

	// Never write credentials to the cassette
	hook := func(i *cassette.Interaction) error {
		delete(i.Request.Headers, "Authorization")
		return nil
	}
	r.AddHook(hook, recorder.AfterCaptureHook)
	// replication commands always reach the server and are never recorded
	r.AddPassthrough(func(req *http.Request) bool {
		return req.Method != http.MethodGet
	})
	r.SetReplayableInteractions(true)

	return r, nil
}

// UseRecorder routes all traffic of api through r.
func (api *API) UseRecorder(r *recorder.Recorder) {
	timeout := api.Client.Timeout
	api.Client = r.GetDefaultClient()
	api.Client.Timeout = timeout
}
