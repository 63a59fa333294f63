// Copyright 2021, 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

// Command xlsheet lists and edits the sheets of .xlsx packages.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/UNO-SOFT/zlog/v2"
	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/UNO-SOFT/sheetmeta"
	"github.com/UNO-SOFT/sheetmeta/workbook"
	"github.com/UNO-SOFT/sheetmeta/xlsx"
)

var verbose zlog.VerboseVar
var logger = zlog.NewLogger(zlog.MaybeConsoleHandler(&verbose, os.Stderr)).SLog()

func main() {
	if err := Main(); err != nil {
		logger.Error("MAIN", "error", err)
		os.Exit(1)
	}
}

func Main() error {
	ctx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a := app{fs: afero.NewOsFs(), out: os.Stdout, logger: logger}
	err := a.command().ParseAndRun(ctx, os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	return err
}

type app struct {
	fs     afero.Fs
	out    io.Writer
	logger *slog.Logger

	strict bool
	dryRun bool
	output string
}

func (a *app) command() *ffcli.Command {
	fs := flag.NewFlagSet("xlsheet", flag.ContinueOnError)
	fs.Var(&verbose, "v", "logging verbosity")
	fs.BoolVar(&a.strict, "strict", false, "fail on sheets missing from docProps/app.xml instead of adding them")
	fs.BoolVar(&a.dryRun, "n", false, "dry run: do not write the result")
	fs.StringVar(&a.output, "o", "", "output file name (default: overwrite the input)")

	subcommands := make([]*ffcli.Command, 0, len(operations)+3)
	subcommands = append(subcommands, a.listCommand())
	for _, op := range operations {
		op := op
		subcommands = append(subcommands, &ffcli.Command{Name: op.name,
			ShortUsage: "xlsheet " + op.name + " file.xlsx " + op.usage,
			ShortHelp:  op.help,
			FlagSet:    flag.NewFlagSet(op.name, flag.ContinueOnError),
			Exec: func(ctx context.Context, args []string) error {
				if len(args) == 0 {
					return usageError("xlsheet " + op.name + " file.xlsx " + op.usage)
				}
				return a.modify(ctx, args[0], func(wb *workbook.Workbook) error {
					return op.run(wb, args[1:])
				})
			},
		})
	}
	subcommands = append(subcommands, a.verifyCommand(), a.applyCommand())

	root := &ffcli.Command{Name: "xlsheet", FlagSet: fs,
		ShortUsage:  "xlsheet [flags] <subcommand> file.xlsx [args]",
		Options:     []ff.Option{ff.WithEnvVarPrefix("XLSHEET")},
		Subcommands: subcommands,
	}
	root.Exec = func(ctx context.Context, args []string) error {
		fmt.Fprintln(a.out, ffcli.DefaultUsageFunc(root))
		return flag.ErrHelp
	}
	return root
}

func usageError(usage string) error { return fmt.Errorf("usage: %s", usage) }

func (a *app) open(fn string) (*workbook.Workbook, error) {
	opts := []workbook.Option{workbook.WithLogger(a.logger)}
	if a.strict {
		opts = append(opts, workbook.WithStrictTitles())
	}
	return xlsx.OpenFile(a.fs, fn, opts...)
}

// modify opens fn, applies f and saves the result unless this is a dry run.
func (a *app) modify(ctx context.Context, fn string, f func(*workbook.Workbook) error) error {
	wb, err := a.open(fn)
	if err != nil {
		return err
	}
	if err = f(wb); err != nil {
		return err
	}
	if err = ctx.Err(); err != nil {
		return err
	}
	if a.dryRun {
		a.logger.Info("dry run, not saving", "file", fn)
		return wb.Verify()
	}
	out := fn
	if a.output != "" {
		out = a.output
	}
	if err = xlsx.SaveFile(a.fs, out, wb); err != nil {
		return err
	}
	a.logger.Debug("saved", "file", out, "sheets", wb.SiblingCount())
	return nil
}

type sheetInfo struct {
	Index   uint   `yaml:"index"`
	Name    string `yaml:"name"`
	Type    string `yaml:"type"`
	State   string `yaml:"state"`
	Path    string `yaml:"path"`
	SheetID uint   `yaml:"sheetId"`
	RelID   string `yaml:"relId"`
}

func (a *app) listCommand() *ffcli.Command {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	flagFormat := fs.String("format", "table", "output format: table or yaml")
	flagReport := fs.String("report", "", "also write the list as a spreadsheet to this file")
	return &ffcli.Command{Name: "list", FlagSet: fs,
		ShortUsage: "xlsheet list [-format table|yaml] [-report out.xlsx] file.xlsx",
		ShortHelp:  "list the sheets",
		Exec: func(ctx context.Context, args []string) error {
			if len(args) != 1 {
				return usageError("xlsheet list [-format table|yaml] [-report out.xlsx] file.xlsx")
			}
			wb, err := a.open(args[0])
			if err != nil {
				return err
			}
			if *flagReport != "" {
				fh, err := a.fs.Create(*flagReport)
				if err != nil {
					return err
				}
				if err = xlsx.WriteReport(fh, wb); err != nil {
					fh.Close()
					return err
				}
				if err = fh.Close(); err != nil {
					return err
				}
			}

			sheets := wb.Sheets()
			infos := make([]sheetInfo, len(sheets))
			for i, s := range sheets {
				infos[i] = sheetInfo{Index: s.Index(), Name: s.Name(),
					Type: s.Type().String(), State: s.State().String(),
					Path: s.Path(), SheetID: s.SheetID(), RelID: s.RelID()}
			}
			switch *flagFormat {
			case "yaml":
				enc := yaml.NewEncoder(a.out)
				enc.SetIndent(2)
				if err := enc.Encode(infos); err != nil {
					return err
				}
				return enc.Close()
			case "table", "":
				tw := tabwriter.NewWriter(a.out, 0, 8, 1, ' ', 0)
				fmt.Fprintln(tw, "#\tNAME\tTYPE\tSTATE\tSHEETID\tRELID\tPATH")
				for _, s := range infos {
					fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%s\t%s\n",
						s.Index, s.Name, s.Type, s.State, s.SheetID, s.RelID, s.Path)
				}
				return tw.Flush()
			default:
				return fmt.Errorf("unknown format %q", *flagFormat)
			}
		},
	}
}

func (a *app) verifyCommand() *ffcli.Command {
	return &ffcli.Command{Name: "verify",
		ShortUsage: "xlsheet verify file.xlsx",
		ShortHelp:  "check that every sheet is recorded consistently",
		FlagSet:    flag.NewFlagSet("verify", flag.ContinueOnError),
		Exec: func(ctx context.Context, args []string) error {
			if len(args) != 1 {
				return usageError("xlsheet verify file.xlsx")
			}
			wb, err := a.open(args[0])
			if err != nil {
				return err
			}
			if err = xlsx.Verify(wb); err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			fmt.Fprintf(a.out, "%s: %d sheets OK\n", args[0], wb.SiblingCount())
			return nil
		},
	}
}

func (a *app) applyCommand() *ffcli.Command {
	fs := flag.NewFlagSet("apply", flag.ContinueOnError)
	flagEnc := fs.String("charset", sheetmeta.EncName, "script charset name")
	return &ffcli.Command{Name: "apply", FlagSet: fs,
		ShortUsage: "xlsheet apply [-charset name] file.xlsx script.csv",
		ShortHelp:  "run the operations listed in a script, one per line",
		LongHelp: `Each line of the script is an operation and its arguments,
separated by commas (or by whatever follows the first operation name),
for example

	rename,Sheet1,Summary
	add,Raw data,worksheet,1
	hide,Raw data,veryHidden

Lines starting with # are skipped. Nothing is written if any line fails.`,
		Exec: func(ctx context.Context, args []string) error {
			if len(args) != 2 {
				return usageError("xlsheet apply [-charset name] file.xlsx script.csv")
			}
			sr, err := sheetmeta.OpenScriptFile(a.fs, args[1], *flagEnc)
			if err != nil {
				return err
			}
			defer sr.Close()
			cmds, err := sr.ReadAll()
			if err != nil {
				return fmt.Errorf("%s: %w", args[1], err)
			}
			return a.modify(ctx, args[0], func(wb *workbook.Workbook) error {
				for _, c := range cmds {
					if err := ctx.Err(); err != nil {
						return err
					}
					op, ok := lookupOperation(c.Op)
					if !ok {
						return fmt.Errorf("%s:%d: unknown operation %q: %w", args[1], c.Line, c.Op, sheetmeta.ErrScript)
					}
					if err := op.run(wb, c.Args); err != nil {
						return fmt.Errorf("%s:%d: %w", args[1], c.Line, err)
					}
					a.logger.Debug("applied", "line", c.Line, "op", c.Op, "args", c.Args)
				}
				a.logger.Info("applied", "script", args[1], "operations", len(cmds))
				return nil
			})
		},
	}
}
