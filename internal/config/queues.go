package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/ini.v1"

	clierrors "github.com/salmonumbrella/qsutils/internal/errors"
)

// QueuesFileName is the alias file name looked up in the working directory.
const QueuesFileName = "queues.cfg"

// EnvQueuesFile overrides the alias file location.
const EnvQueuesFile = "QSU_QUEUES_FILE"

// QueueConfig is a loaded alias file:
//
//	[user]
//	name=mmb28
//
//	[queues]
//	serial=serial.q,serial_lowmem.q
//	parallel=parallel.q
//
// It is read once and not modified afterwards.
type QueueConfig struct {
	Path     string
	UserName string
	queues   map[string]string
}

// QueuesSearchPath returns the candidate alias file locations in lookup
// order: explicit flag, $QSU_QUEUES_FILE, the queues_file preference,
// ./queues.cfg, ~/.config/qsutils/queues.cfg. An explicit flag is the only
// candidate when set.
func QueuesSearchPath(flagPath string, prefs *Config) []string {
	if strings.TrimSpace(flagPath) != "" {
		return []string{flagPath}
	}
	var paths []string
	if env := strings.TrimSpace(os.Getenv(EnvQueuesFile)); env != "" {
		paths = append(paths, env)
	}
	if prefs != nil && strings.TrimSpace(prefs.QueuesFile) != "" {
		paths = append(paths, prefs.QueuesFile)
	}
	paths = append(paths, QueuesFileName)
	if dir, err := Dir(); err == nil {
		paths = append(paths, filepath.Join(dir, QueuesFileName))
	}
	return paths
}

// FindQueues loads the first alias file that exists among paths.
func FindQueues(paths []string) (*QueueConfig, error) {
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil || info.IsDir() {
			continue
		}
		return LoadQueues(p)
	}
	return nil, clierrors.QueuesFileNotFoundError(paths)
}

// LoadQueues parses the alias file at path. Section and key names are
// case-insensitive.
func LoadQueues(path string) (*QueueConfig, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, clierrors.QueuesFileNotFoundError([]string{path})
	}

	f, err := ini.LoadSources(ini.LoadOptions{Insensitive: true}, path)
	if err != nil {
		return nil, &clierrors.ConfigError{
			Path:       path,
			Message:    fmt.Sprintf("cannot read %s", path),
			Suggestion: "Check the file is INI with a [queues] section",
			Err:        err,
		}
	}

	qc := &QueueConfig{Path: path, queues: make(map[string]string)}
	if sec, err := f.GetSection("queues"); err == nil {
		for _, key := range sec.Keys() {
			qc.queues[key.Name()] = normalizeQueueList(key.String())
		}
	}
	if sec, err := f.GetSection("user"); err == nil && sec.HasKey("name") {
		qc.UserName = strings.TrimSpace(sec.Key("name").String())
	}
	return qc, nil
}

// Resolve returns the queue list string for alias, ready to pass to qalter -q.
func (q *QueueConfig) Resolve(alias string) (string, error) {
	list, ok := q.queues[strings.ToLower(strings.TrimSpace(alias))]
	if !ok {
		return "", clierrors.UnknownAliasError(q.Path, alias, q.Aliases())
	}
	return list, nil
}

// Aliases returns the defined aliases, sorted.
func (q *QueueConfig) Aliases() []string {
	names := make([]string, 0, len(q.queues))
	for name := range q.queues {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// normalizeQueueList drops whitespace around the commas; qalter takes the
// list as one argument.
func normalizeQueueList(raw string) string {
	parts := strings.Split(raw, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ",")
}
