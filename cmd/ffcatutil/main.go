// ffcatutil is a thin smoke-test CLI over pkg/ffcat: it scans a directory
// tree, recording one catalog entry per regular file with its size and
// checksum digest, then round-trips the result through Save/Load against a
// catalog file. It is not the original implementation's interactive shell;
// see spec.md's Non-goals.
package main

import (
	"crypto/rand"
	"flag"
	"fmt"
	"os"

	"github.com/nilotpal-labs/ffcat/internal/catalog"
	"github.com/nilotpal-labs/ffcat/pkg/checksum"
	"github.com/nilotpal-labs/ffcat/pkg/ffcat"
	"github.com/nilotpal-labs/ffcat/pkg/filesys"
)

func main() {
	var (
		catalogPath = flag.String("catalog", "", "catalog file to write (required)")
		scanDir     = flag.String("scan", "", "directory to crawl into new catalog entries")
		verbose     = flag.Bool("verbose", false, "log progress during save/load")
	)
	flag.Parse()

	if *catalogPath == "" {
		fmt.Fprintln(os.Stderr, "ffcatutil: -catalog is required")
		os.Exit(2)
	}

	if err := run(*catalogPath, *scanDir, *verbose); err != nil {
		fmt.Fprintln(os.Stderr, "ffcatutil:", err)
		os.Exit(1)
	}
}

func run(catalogPath, scanDir string, verbose bool) error {
	db := ffcat.New()

	if scanDir != "" {
		if err := scan(db, scanDir); err != nil {
			return fmt.Errorf("scan: %w", err)
		}
	}

	progressEvery := 0
	if verbose {
		progressEvery = 1
	}
	if err := db.SaveFile(catalogPath, progressEvery); err != nil {
		return fmt.Errorf("save: %w", err)
	}

	roundTrip := ffcat.New()
	if err := roundTrip.LoadFile(catalogPath, 0); err != nil {
		return fmt.Errorf("load: %w", err)
	}

	fmt.Printf("ffcatutil: wrote and reloaded %s\n", catalogPath)
	return nil
}

// scan walks dir and records one file entry per regular file, computing its
// checksum digest and a handful of sampled extracts with the default
// collaborators from pkg/checksum.
func scan(db *ffcat.Database, dir string) error {
	root := db.Root()
	opts := db.Options()

	return filesys.WalkFiles(dir, func(path string, info os.FileInfo) error {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		e, err := db.CreateEntry(root, newEID(), catalog.EntryTypeFile, catalog.CreatedBySystem)
		if err != nil {
			return err
		}
		e.FileName = info.Name()

		fd := db.AttachFileData(e)
		fd.FileSize = info.Size()
		fd.Checksum = digestToSlots(checksum.Default(data))
		for _, ex := range checksum.DefaultExtracts(data, opts.ExtractMaxNum, opts.ExtractSizeMax) {
			fd.Extracts = append(fd.Extracts, catalog.Extract{Position: ex.Offset, Data: ex.Data})
		}
		if err := db.LinkFileData(fd); err != nil {
			return err
		}
		return db.LinkEntry(e)
	})
}

func digestToSlots(d checksum.Digest) [3]catalog.ChecksumSlot {
	return [3]catalog.ChecksumSlot{
		catalog.ChecksumSHA1:   {Set: true, Bytes: d.SHA1[:]},
		catalog.ChecksumSHA256: {Set: true, Bytes: d.SHA256[:]},
		catalog.ChecksumSHA512: {Set: true, Bytes: d.SHA512[:]},
	}
}

func newEID() catalog.EID {
	var id catalog.EID
	_, _ = rand.Read(id[:])
	return id
}
