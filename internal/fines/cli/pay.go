package cli

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"os"
	"time"

	"github.com/aussiebroadwan/finepay/pkg/finesdk"
	"github.com/spf13/cobra"
)

var checkoutPage = template.Must(template.New("checkout").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Redirecting to payment</title></head>
<body onload="document.forms[0].submit()">
<p>Redirecting to the payment page&hellip;</p>
<form action="{{.Action}}" method="{{.Method}}">
{{- range .Fields}}
<input type="hidden" name="{{.Name}}" value="{{.Value}}">
{{- end}}
<noscript><button type="submit">Continue to payment</button></noscript>
</form>
</body>
</html>
`))

func newPayCmd(e *env) *cobra.Command {
	var email, formFile string

	cmd := &cobra.Command{
		Use:   "pay <fine-id>",
		Short: "Start paying a fine",
		Long: `Start paying a fine through the hosted payment page.

The payment session is created for the full fine amount. Use --form to write a
page that opens the payment gateway in a browser. When signed in, the payment
is added to your history once the gateway confirms it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := finesdk.InitiatePaymentRequest{FineID: args[0], Email: email}

			sess, err := e.requireUser()
			if err != nil && !errors.Is(err, errNotLoggedIn) {
				return err
			}
			if sess == nil && email == "" {
				return errors.New("--email is required when not logged in")
			}

			var (
				fine *finesdk.Fine
				out  *finesdk.InitiatePaymentResponse
			)
			err = e.call(cmd.Context(), func(ctx context.Context) error {
				var err error
				if fine, err = e.client.GetFine(ctx, req.FineID); err != nil {
					return err
				}
				if sess != nil {
					out, err = sess.InitiatePayment(ctx, req)
				} else {
					out, err = e.client.InitiatePayment(ctx, req)
				}
				return err
			})
			if err != nil {
				return err
			}

			d := toDomain(*fine)
			now := time.Now()
			fmt.Fprintf(e.out, "Fine %s: %s\n", fine.NoticeNumber, fine.Offense.Description)
			fmt.Fprintf(e.out, "Amount due: %s\n", zar(out.Session.Amount))
			if d.DiscountActive(now) {
				fmt.Fprintf(e.out, "Early payment price shown by the municipality: %s\n", zar(d.PayableAmount(now)))
			}
			fmt.Fprintf(e.out, "Session %s expires %s\n", out.Session.ID, out.Session.ExpiresAt.Local().Format(time.RFC1123))

			if formFile == "" {
				fmt.Fprintf(e.out, "POST the following fields to %s:\n", out.Checkout.Action)
				for _, f := range out.Checkout.Fields {
					fmt.Fprintf(e.out, "  %s=%s\n", f.Name, f.Value)
				}
				return nil
			}

			if err := writeCheckoutPage(formFile, out.Checkout); err != nil {
				return fmt.Errorf("write form: %w", err)
			}
			fmt.Fprintf(e.out, "Open %s in a browser to continue to the payment page.\n", formFile)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email for the payment receipt (defaults to your account email)")
	cmd.Flags().StringVar(&formFile, "form", "", "Write an auto-submitting checkout page to this file")
	return cmd
}

func writeCheckoutPage(path string, c finesdk.Checkout) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	if err := renderCheckout(f, c); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func renderCheckout(w io.Writer, c finesdk.Checkout) error {
	return checkoutPage.Execute(w, c)
}
