package cli

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/aussiebroadwan/finepay/pkg/finesdk"
	"github.com/aussiebroadwan/finepay/pkg/identx"
	"github.com/spf13/cobra"
)

func newSearchCmd(e *env) *cobra.Command {
	var p finesdk.SearchParams

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search fines by ID number, notice number or registration",
		Long: `Search traffic fines.

With a single criterion only exact matches are returned. With more than one,
any fine matching at least one of them is returned.`,
		Example: `  finectl search --id 8001015009087
  finectl search --reg CA123456 --notice JHB2024005678`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := cleanSearch(p)
			if err != nil {
				return err
			}

			var results []finesdk.Fine
			err = e.call(cmd.Context(), func(ctx context.Context) error {
				var err error
				results, err = e.client.SearchFines(ctx, params)
				return err
			})
			if err != nil {
				return err
			}

			e.state.SetSearchResults(results)
			printFines(e.out, results, time.Now())
			return nil
		},
	}

	cmd.Flags().StringVar(&p.IDNumber, "id", "", "Driver ID number")
	cmd.Flags().StringVar(&p.NoticeNumber, "notice", "", "Notice number")
	cmd.Flags().StringVar(&p.VehicleRegistration, "reg", "", "Vehicle registration")
	return cmd
}

// cleanSearch normalises the supplied criteria and rejects malformed ones
// before anything is sent.
func cleanSearch(p finesdk.SearchParams) (finesdk.SearchParams, error) {
	var errs []error
	if p.IDNumber != "" {
		p.IDNumber = identx.CleanNationalID(p.IDNumber)
		if fe := identx.CheckNationalID(p.IDNumber); fe != nil {
			errs = append(errs, fe)
		}
	}
	if p.NoticeNumber != "" {
		p.NoticeNumber = identx.CleanNoticeNumber(p.NoticeNumber)
		if fe := identx.CheckNoticeNumber(p.NoticeNumber); fe != nil {
			errs = append(errs, fe)
		}
	}
	if p.VehicleRegistration != "" {
		p.VehicleRegistration = identx.CleanVehicleRegistration(p.VehicleRegistration)
		if fe := identx.CheckVehicleRegistration(p.VehicleRegistration); fe != nil {
			errs = append(errs, fe)
		}
	}
	if len(errs) > 0 {
		return p, errors.Join(errs...)
	}
	if p == (finesdk.SearchParams{}) {
		return p, errors.New("give at least one of --id, --notice or --reg")
	}
	return p, nil
}

func newFineCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "fine <id>",
		Short: "Show one fine",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var f *finesdk.Fine
			err := e.call(cmd.Context(), func(ctx context.Context) error {
				var err error
				f, err = e.client.GetFine(ctx, args[0])
				return err
			})
			if err != nil {
				return err
			}
			printFine(e.out, *f, time.Now())
			return nil
		},
	}
}

func newMunicipalitiesCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "municipalities",
		Short: "List municipalities and whether they accept online payment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var ms []finesdk.Municipality
			err := e.call(cmd.Context(), func(ctx context.Context) error {
				var err error
				ms, err = e.client.ListMunicipalities(ctx)
				return err
			})
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(e.out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tPROVINCE\tONLINE\tPHONE")
			for _, m := range ms {
				online := "no"
				if m.IsSupported {
					online = "yes"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", m.Name, m.Province, online, m.ContactInfo.Phone)
			}
			return tw.Flush()
		},
	}
}

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check an identifier offline",
	}

	check := func(use, short string, clean func(string) string, fn func(string) *identx.FieldError) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <value>",
			Short: short,
			Args:  cobra.ExactArgs(1),
			// No API or session needed.
			PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
			RunE: func(cmd *cobra.Command, args []string) error {
				v := clean(args[0])
				if fe := fn(v); fe != nil {
					return errors.New(fe.Message)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s is valid\n", v)
				return nil
			},
		}
	}

	cmd.AddCommand(
		check("id", "Validate a South African ID number", identx.CleanNationalID, identx.CheckNationalID),
		check("reg", "Validate a vehicle registration", identx.CleanVehicleRegistration, identx.CheckVehicleRegistration),
		check("notice", "Validate a notice number", identx.CleanNoticeNumber, identx.CheckNoticeNumber),
	)
	return cmd
}
