package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aria-lang/isoflow-go/pkg/isoflow"
)

func isoformsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "isoforms <accession>",
		Short: "List the isoforms of an accession",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.service(cmd.Context())
			if err != nil {
				return err
			}
			defer svc.Close()

			isoforms, err := svc.Isoforms(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return opts.emit(cmd, isoforms, func(w io.Writer) error {
				tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tLENGTH\tCANONICAL\tEDITS\tNAMES")
				for _, iso := range isoforms {
					fmt.Fprintf(tw, "%s\t%d\t%t\t%d\t%s\n",
						iso.ID, iso.Len(), iso.Canonical, len(iso.Edits), strings.Join(iso.Names, ", "))
				}
				return tw.Flush()
			})
		},
	}
}

func alignCmd(opts *options) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "align [accession]",
		Short: "Align the isoforms of an accession or of a local file",
		Long: `Align the isoforms of an accession.

With --file, isoforms are read from a JSON or YAML list instead, canonical
first, and nothing is downloaded.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (file == "") == (len(args) == 0) {
				return errors.New("give either an accession or --file")
			}

			svc, err := opts.service(cmd.Context())
			if err != nil {
				return err
			}
			defer svc.Close()

			var seqs []isoflow.AlignedSequence
			if file != "" {
				isoforms, err := readIsoforms(file)
				if err != nil {
					return err
				}
				seqs, err = svc.AlignIsoforms(cmd.Context(), isoforms)
				if err != nil {
					return err
				}
			} else {
				seqs, err = svc.Align(cmd.Context(), args[0])
				if err != nil {
					return err
				}
			}

			return opts.emit(cmd, seqs, func(w io.Writer) error {
				_, err := io.WriteString(w, isoflow.Format(seqs))
				return err
			})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON or YAML file with isoforms to align")

	return cmd
}

func readIsoforms(path string) ([]isoflow.Isoform, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open isoforms: %w", err)
	}
	defer f.Close()
	return isoflow.DecodeIsoforms(f)
}

func svgCmd(opts *options) *cobra.Command {
	var highlight string

	cmd := &cobra.Command{
		Use:   "svg <accession>",
		Short: "Draw the alignment as SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.service(cmd.Context())
			if err != nil {
				return err
			}
			defer svc.Close()

			w, closeFn, err := opts.writer(cmd)
			if err != nil {
				return err
			}
			if err := svc.SVG(cmd.Context(), w, args[0], highlight); err != nil {
				_ = closeFn()
				return err
			}
			return closeFn()
		},
	}

	cmd.Flags().StringVar(&highlight, "highlight", "", "Motif of the canonical sequence to shade")

	return cmd
}

func fastaCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "fasta <accession>",
		Short: "Write the gapped alignment as FASTA",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.service(cmd.Context())
			if err != nil {
				return err
			}
			defer svc.Close()

			w, closeFn, err := opts.writer(cmd)
			if err != nil {
				return err
			}
			if err := svc.FASTA(cmd.Context(), w, args[0]); err != nil {
				_ = closeFn()
				return err
			}
			return closeFn()
		},
	}
}

func statsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "stats <accession>",
		Short: "Summarize the alignment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.service(cmd.Context())
			if err != nil {
				return err
			}
			defer svc.Close()

			s, err := svc.Stats(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return opts.emit(cmd, s, func(w io.Writer) error {
				_, err := fmt.Fprintln(w, s.String())
				return err
			})
		},
	}
}

func bestCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "best <accession>...",
		Short: "Rank candidate accessions",
		Long: `Rank candidate accessions: reviewed entries first, then more isoforms,
then longer canonical sequences. Accessions that fail to load are listed
after the ranking.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.service(cmd.Context())
			if err != nil {
				return err
			}
			defer svc.Close()

			res, err := svc.Rank(cmd.Context(), args)
			if err != nil {
				return err
			}
			return opts.emit(cmd, res, func(w io.Writer) error {
				tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "RANK\tACCESSION\tMNEMONIC\tREVIEWED\tISOFORMS\tLENGTH\tWIDTH")
				for i, c := range res.Candidates {
					fmt.Fprintf(tw, "%d\t%s\t%s\t%t\t%d\t%d\t%d\n",
						i+1, c.Accession, c.Mnemonic, c.Reviewed, c.Isoforms, c.CanonicalLength, c.AlignmentWidth)
				}
				for _, f := range res.Failures {
					fmt.Fprintf(tw, "-\t%s\tfailed: %s\n", f.Accession, f.Error)
				}
				return tw.Flush()
			})
		},
	}
}
