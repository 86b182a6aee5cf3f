package main

import (
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

type solutionCacheDump struct {
	Entries []SolutionEntry
}

func loadPersistedSolutions(config Config) {
	if !config.PersistSolutions {
		return
	}
	if err := sharedSolutionCache.loadFromFile(config.SolutionCachePath); err != nil {
		fmt.Printf("[cache] load solution cache error: %v\n", err)
	}
}

func persistSolutions(config Config) {
	if !config.PersistSolutions {
		return
	}
	if err := ensureCacheDir(config.SolutionCachePath); err != nil {
		fmt.Printf("[cache] ensure dir: %v\n", err)
		return
	}
	if err := sharedSolutionCache.saveToFile(config.SolutionCachePath); err != nil {
		fmt.Printf("[cache] persist solution cache: %v\n", err)
	}
}

func ensureCacheDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}

func (c *solutionCache) saveToFile(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	dump := solutionCacheDump{Entries: c.Snapshot()}
	enc := gob.NewEncoder(file)
	return enc.Encode(dump)
}

func (c *solutionCache) loadFromFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()
	var dump solutionCacheDump
	if err := gob.NewDecoder(file).Decode(&dump); err != nil {
		if isEOFError(err) {
			file.Close()
			os.Remove(path)
			return nil
		}
		return err
	}
	c.replace(dump.Entries)
	return nil
}

func isEOFError(err error) bool {
	return err == io.EOF || err == io.ErrUnexpectedEOF
}
