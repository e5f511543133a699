package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/spf13/cobra"
)

// infoReport describes the registry's location, contents and storage volume.
type infoReport struct {
	Root         string      `json:"root" yaml:"root"`
	RegistryFile string      `json:"registry_file" yaml:"registry_file"`
	FilesDir     string      `json:"files_dir" yaml:"files_dir"`
	Entries      int         `json:"entries" yaml:"entries"`
	Stored       int         `json:"stored" yaml:"stored"`
	StoredBytes  uint64      `json:"stored_bytes" yaml:"stored_bytes"`
	Missing      []string    `json:"missing,omitempty" yaml:"missing,omitempty"`
	Volume       *volumeInfo `json:"volume,omitempty" yaml:"volume,omitempty"`
}

type volumeInfo struct {
	Path        string  `json:"path" yaml:"path"`
	Fstype      string  `json:"fstype" yaml:"fstype"`
	Total       uint64  `json:"total" yaml:"total"`
	Free        uint64  `json:"free" yaml:"free"`
	UsedPercent float64 `json:"used_percent" yaml:"used_percent"`
}

func newInfoCommand(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show where saved files live and how much space they use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOutput(output); err != nil {
				return err
			}
			report := a.collectInfo()
			if output != outputText {
				return encode(a.stdout, output, report)
			}
			printInfo(a.stdout, report)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", outputText, "output format: text, json or yaml")
	return cmd
}

func (a *app) collectInfo() infoReport {
	report := infoReport{
		Root:         a.paths.Root,
		RegistryFile: a.paths.RegistryFile(),
		FilesDir:     a.paths.FilesDir(),
	}

	for _, e := range sortedEntries(a.registry) {
		report.Entries++
		if !e.IsStored() {
			continue
		}
		fi, err := os.Stat(*e.StoredPath)
		if err != nil {
			report.Missing = append(report.Missing, e.Key())
			continue
		}
		report.Stored++
		report.StoredBytes += uint64(fi.Size())
	}

	usage, err := disk.Usage(existingAncestor(a.paths.Root))
	if err != nil {
		log.Debug().Err(err).Str("path", a.paths.Root).Msg("volume usage unavailable")
		return report
	}
	report.Volume = &volumeInfo{
		Path:        usage.Path,
		Fstype:      usage.Fstype,
		Total:       usage.Total,
		Free:        usage.Free,
		UsedPercent: usage.UsedPercent,
	}
	return report
}

// existingAncestor returns path or its closest existing parent, so volume
// statistics work before the registry directory has been created.
func existingAncestor(path string) string {
	p := path
	for {
		if _, err := os.Stat(p); !errors.Is(err, os.ErrNotExist) {
			return p
		}
		parent := filepath.Dir(p)
		if parent == p {
			return p
		}
		p = parent
	}
}

func printInfo(w io.Writer, r infoReport) {
	row := func(label, value string) {
		fmt.Fprintf(w, "%s %s\n", styleLabel.Render(fmt.Sprintf("%-14s", label)), styleValue.Render(value))
	}
	row("registry:", r.RegistryFile)
	row("files:", r.FilesDir)
	row("entries:", fmt.Sprintf("%d", r.Entries))
	row("stored:", fmt.Sprintf("%d (%s)", r.Stored, humanize.Bytes(r.StoredBytes)))
	if len(r.Missing) > 0 {
		fmt.Fprintln(w, styleWarn.Render(fmt.Sprintf("%d stored copies are missing:", len(r.Missing))))
		for _, key := range r.Missing {
			fmt.Fprintln(w, "  "+key)
		}
	}
	if r.Volume != nil {
		row("volume:", fmt.Sprintf("%s (%s)", r.Volume.Path, r.Volume.Fstype))
		row("free space:", fmt.Sprintf("%s of %s (%.1f%% used)",
			humanize.Bytes(r.Volume.Free), humanize.Bytes(r.Volume.Total), r.Volume.UsedPercent))
	}
}
