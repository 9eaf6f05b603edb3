package cli

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/aussiebroadwan/finepay/internal/fines/domain"
	"github.com/aussiebroadwan/finepay/pkg/finesdk"
)

const dateLayout = "2006-01-02"

type fieldsError struct {
	desc   string
	fields map[string]string
}

func (e *fieldsError) Error() string {
	var b strings.Builder
	b.WriteString(e.desc)
	for _, k := range slices.Sorted(maps.Keys(e.fields)) {
		fmt.Fprintf(&b, "\n  %s: %s", k, e.fields[k])
	}
	return b.String()
}

// toDomain carries the fields the amount rules need.
func toDomain(f finesdk.Fine) domain.TrafficFine {
	return domain.TrafficFine{
		ID:                 f.ID,
		Amount:             f.Amount,
		Status:             domain.FineStatus(f.Status),
		Municipality:       domain.Municipality{IsSupported: f.Municipality.IsSupported},
		DiscountAmount:     f.DiscountAmount,
		DiscountValidUntil: f.DiscountValidUntil,
	}
}

func zar(v float64) string {
	return fmt.Sprintf("R %.2f", v)
}

func printFines(w io.Writer, fines []finesdk.Fine, now time.Time) {
	if len(fines) == 0 {
		fmt.Fprintln(w, "No fines found.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNOTICE\tREGISTRATION\tSTATUS\tDUE\tPAYABLE")
	for _, f := range fines {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			f.ID, f.NoticeNumber, f.VehicleRegistration, f.Status,
			f.DueDate.Format(dateLayout), zar(toDomain(f).PayableAmount(now)))
	}
	_ = tw.Flush()
}

func printFine(w io.Writer, f finesdk.Fine, now time.Time) {
	d := toDomain(f)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Notice\t%s\n", f.NoticeNumber)
	fmt.Fprintf(tw, "Status\t%s\n", f.Status)
	fmt.Fprintf(tw, "Offense\t%s (%s)\n", f.Offense.Description, f.Offense.Code)
	fmt.Fprintf(tw, "Location\t%s\n", f.Location)
	fmt.Fprintf(tw, "Vehicle\t%s\n", f.VehicleRegistration)
	fmt.Fprintf(tw, "Driver ID\t%s\n", f.DriverIDNumber)
	fmt.Fprintf(tw, "Municipality\t%s, %s\n", f.Municipality.Name, f.Municipality.Province)
	fmt.Fprintf(tw, "Issued\t%s\n", f.IssueDate.Format(dateLayout))
	fmt.Fprintf(tw, "Due\t%s\n", f.DueDate.Format(dateLayout))
	fmt.Fprintf(tw, "Amount\t%s\n", zar(f.Amount))
	if d.DiscountActive(now) {
		until := ""
		if f.DiscountValidUntil != nil {
			until = " until " + f.DiscountValidUntil.Format(dateLayout)
		}
		fmt.Fprintf(tw, "Discount\t%s%s\n", zar(*f.DiscountAmount), until)
		fmt.Fprintf(tw, "Payable\t%s\n", zar(d.PayableAmount(now)))
	}
	_ = tw.Flush()

	if !f.Municipality.IsSupported {
		fmt.Fprintf(w, "\nOnline payment is not available for %s. Contact %s or %s.\n",
			f.Municipality.Name, f.Municipality.ContactInfo.Phone, f.Municipality.ContactInfo.Email)
	}
}

func printUser(w io.Writer, u *finesdk.User) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Name\t%s %s\n", u.FirstName, u.LastName)
	fmt.Fprintf(tw, "Email\t%s\n", u.Email)
	fmt.Fprintf(tw, "Phone\t%s\n", u.Phone)
	fmt.Fprintf(tw, "ID number\t%s\n", u.IDNumber)
	fmt.Fprintf(tw, "Vehicles\t%d\n", len(u.Vehicles))
	_ = tw.Flush()
}

func printVehicles(w io.Writer, vs []finesdk.Vehicle) {
	if len(vs) == 0 {
		fmt.Fprintln(w, "No vehicles registered.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tREGISTRATION\tMAKE\tMODEL\tYEAR")
	for _, v := range vs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", v.ID, v.Registration, v.Make, v.Model, v.Year)
	}
	_ = tw.Flush()
}

func printPayments(w io.Writer, ps []finesdk.PaymentRecord) {
	if len(ps) == 0 {
		fmt.Fprintln(w, "No payments yet.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tFINE\tAMOUNT\tMETHOD\tTRANSACTION\tSTATUS")
	for _, p := range ps {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			p.PaymentDate.Format(dateLayout), p.FineID, zar(p.Amount), p.PaymentMethod, p.TransactionID, p.Status)
	}
	_ = tw.Flush()
}
