package filter

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// Dump collects the matching keys and, after confirmation, writes
// each key's native serialized value to <dir>/<key>. The payload is
// the exact DUMP response, so a later Restore reproduces the value
// byte for byte.
func (rf *RedisFilter) Dump(sel Selector, dir string) error {
	matches, err := rf.matchSet(sel)
	if err != nil {
		return err
	}

	fmt.Fprintf(rf.out, "%d keys found\n", len(matches))
	if !rf.confirm.Confirm(fmt.Sprintf("Dump all matching keys to %s?", dir)) {
		fmt.Fprintln(rf.out, "Aborted")
		return nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	count := 0
	for _, m := range matches {
		// The file name must be the key itself or restore cannot
		// reproduce it, so a key with a path separator has no valid
		// dump file.
		if strings.ContainsRune(m.Key, os.PathSeparator) {
			log.Printf("Skipping key %s: path separator in key name", m.Key)
			continue
		}
		fmt.Fprintf(rf.out, "Dumping %s\n", m.Key)
		payload, err := rf.store.Dump(rf.ctx, m.Key)
		if err != nil {
			return fmt.Errorf("failed to dump key %s: %w", m.Key, err)
		}
		if err := os.WriteFile(filepath.Join(dir, m.Key), []byte(payload), 0644); err != nil {
			return fmt.Errorf("failed to write dump file for key %s: %w", m.Key, err)
		}
		count++
	}

	fmt.Fprintf(rf.out, "Dumped %d keys to %s\n", count, dir)
	return nil
}

// Restore imports every regular file in dir as a key: the file name
// is the key and the file content is the native serialized payload.
// Each RESTORE call is independent; a failed key is logged and the
// loop moves on.
func (rf *RedisFilter) Restore(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read dump directory: %w", err)
	}

	count := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		key := entry.Name()
		payload, err := os.ReadFile(filepath.Join(dir, key))
		if err != nil {
			log.Printf("Error reading dump file for key %s: %v", key, err)
			continue
		}

		fmt.Fprintf(rf.out, "Restoring %s\n", key)
		if err := rf.store.Restore(rf.ctx, key, string(payload)); err != nil {
			log.Printf("Error restoring key %s: %v", key, err)
			continue
		}
		count++
	}

	fmt.Fprintf(rf.out, "Restored %d keys from %s\n", count, dir)
	return nil
}
