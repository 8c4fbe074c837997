// Package store holds the file-backed state of the agent: the concept
// archive, the observation log, and the thought history. Every store is
// a whole-file JSON collection; a missing or unparsable file is treated
// as an empty collection rather than an error.
package store

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// readCollection loads a JSON array from path into out. Missing or corrupt
// files leave out untouched (callers start from the empty collection).
func readCollection(path string, out any) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	_ = json.Unmarshal(data, out)
}

// writeCollection persists a JSON array with an atomic whole-file rewrite
// (temp file + rename), so a crashed write never leaves a torn file.
func writeCollection(path string, in any) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(in, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
