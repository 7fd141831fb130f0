package version

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"runtime"
	"time"
)

// Set at build time with -ldflags "-X".
var (
	Name      = "slackgw"
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildTime)
}

// Info describes the running binary and its host.
type Info struct {
	Name        string    `json:"name"`
	Version     string    `json:"version"`
	Commit      string    `json:"commit"`
	BuildTime   string    `json:"buildTime"`
	GoVersion   string    `json:"goVersion"`
	OS          string    `json:"os"`
	Arch        string    `json:"arch"`
	NumCPU      int       `json:"numCpu"`
	Host        string    `json:"host"`
	Environment string    `json:"environment,omitempty"`
	DateTime    time.Time `json:"dateTime"`
}

// Current returns Info for this process. environment is reported as given.
func Current(environment string) Info {
	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}
	return Info{
		Name:        Name,
		Version:     Version,
		Commit:      Commit,
		BuildTime:   BuildTime,
		GoVersion:   runtime.Version(),
		OS:          runtime.GOOS,
		Arch:        runtime.GOARCH,
		NumCPU:      runtime.NumCPU(),
		Host:        host,
		Environment: environment,
		DateTime:    time.Now().UTC(),
	}
}

// Handler serves Current as JSON.
func Handler(environment string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(Current(environment))
	}
}
