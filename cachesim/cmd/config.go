package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Environment variables that provide flag defaults.
const (
	envRecord      = "MEMHIER_RECORD"
	envMonitorPort = "MEMHIER_MONITOR_PORT"
	envSeed        = "MEMHIER_SEED"
	envLog         = "MEMHIER_LOG"
)

// runConfig is everything the run command needs.
type runConfig struct {
	tracePath   string
	pagesPath   string
	identity    bool
	recordName  string
	record      bool
	log         bool
	monitorPort int
	monitor     bool
	openBrowser bool
	dump        bool
	seed        uint64
}

func envString(key, def string) string {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def
	}

	return v
}

func envBool(key string, def bool) (bool, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def, nil
	}

	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true, nil
	case "0", "false", "no", "off":
		return false, nil
	}

	return false, fmt.Errorf("%s=%q is not a boolean", key, v)
}

func envUint(key string, def uint64) (uint64, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def, nil
	}

	n, err := strconv.ParseUint(v, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("%s=%q: %w", key, v, err)
	}

	return n, nil
}
