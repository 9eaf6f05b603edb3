package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/aussiebroadwan/finepay/pkg/finesdk"
	"github.com/spf13/cobra"
)

func newRegisterCmd(e *env) *cobra.Command {
	var req finesdk.RegisterUserRequest

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var auth *finesdk.AuthResponse
			err := e.call(cmd.Context(), func(ctx context.Context) error {
				var err error
				_, auth, err = e.client.Register(ctx, req)
				return err
			})
			if err != nil {
				return err
			}
			if err := e.saveSession(auth); err != nil {
				return fmt.Errorf("save session: %w", err)
			}
			fmt.Fprintf(e.out, "Welcome, %s. You are signed in.\n", auth.User.FirstName)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.FirstName, "first-name", "", "First name")
	cmd.Flags().StringVar(&req.LastName, "last-name", "", "Last name")
	cmd.Flags().StringVar(&req.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&req.Phone, "phone", "", "Phone number")
	cmd.Flags().StringVar(&req.IDNumber, "id", "", "South African ID number")
	cmd.Flags().StringVar(&req.Password, "password", "", "Password, at least 8 characters")
	return cmd
}

func newLoginCmd(e *env) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var auth *finesdk.AuthResponse
			err := e.call(cmd.Context(), func(ctx context.Context) error {
				var err error
				_, auth, err = e.client.Login(ctx, email, password)
				return err
			})
			if err != nil {
				return err
			}
			if err := e.saveSession(auth); err != nil {
				return fmt.Errorf("save session: %w", err)
			}
			fmt.Fprintf(e.out, "Signed in as %s.\n", auth.User.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&password, "password", "", "Password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newLogoutCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := e.clearSession(); err != nil {
				return err
			}
			fmt.Fprintln(e.out, "Signed out.")
			return nil
		},
	}
}

func newWhoamiCmd(e *env) *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !refresh {
				u := e.state.Snapshot().User
				if u == nil {
					return errNotLoggedIn
				}
				printUser(e.out, u)
				return nil
			}

			sess, err := e.requireUser()
			if err != nil {
				return err
			}
			var u *finesdk.User
			err = e.call(cmd.Context(), func(ctx context.Context) error {
				u, err = sess.Me(ctx)
				return err
			})
			if err != nil {
				return err
			}
			e.state.SetUser(u)
			printUser(e.out, u)
			return nil
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "Fetch the profile from the server")
	return cmd
}

func newMyFinesCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "my-fines",
		Short: "List fines issued to your ID number or vehicles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := e.requireUser()
			if err != nil {
				return err
			}
			var fines []finesdk.Fine
			err = e.call(cmd.Context(), func(ctx context.Context) error {
				fines, err = sess.MyFines(ctx)
				return err
			})
			if err != nil {
				return err
			}
			printFines(e.out, fines, time.Now())
			return nil
		},
	}
}

func newDashboardCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Summarise your fines and payments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := e.requireUser()
			if err != nil {
				return err
			}
			var d *finesdk.DashboardResponse
			err = e.call(cmd.Context(), func(ctx context.Context) error {
				d, err = sess.Dashboard(ctx)
				return err
			})
			if err != nil {
				return err
			}

			s := d.Stats
			fmt.Fprintf(e.out, "Outstanding: %d (%s)\n", s.OutstandingCount, zar(s.OutstandingTotal))
			fmt.Fprintf(e.out, "Overdue:     %d\n", s.OverdueCount)
			fmt.Fprintf(e.out, "Paid:        %d (%s paid to date)\n", s.PaidCount, zar(s.TotalPaid))
			fmt.Fprintf(e.out, "Vehicles:    %d\n\n", s.VehicleCount)
			fmt.Fprintln(e.out, "Recent fines:")
			printFines(e.out, d.RecentFines, time.Now())
			return nil
		},
	}
}

func newPaymentsCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "payments",
		Short: "Show your payment history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := e.requireUser()
			if err != nil {
				return err
			}
			var ps []finesdk.PaymentRecord
			err = e.call(cmd.Context(), func(ctx context.Context) error {
				ps, err = sess.Payments(ctx)
				return err
			})
			if err != nil {
				return err
			}
			printPayments(e.out, ps)
			return nil
		},
	}
}

func newVehiclesCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vehicles",
		Short: "Manage your registered vehicles",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List your vehicles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := e.requireUser()
			if err != nil {
				return err
			}
			var u *finesdk.User
			err = e.call(cmd.Context(), func(ctx context.Context) error {
				u, err = sess.Me(ctx)
				return err
			})
			if err != nil {
				return err
			}
			e.state.SetUser(u)
			printVehicles(e.out, u.Vehicles)
			return nil
		},
	}

	var req finesdk.AddVehicleRequest
	add := &cobra.Command{
		Use:   "add <registration>",
		Short: "Register a vehicle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := e.requireUser()
			if err != nil {
				return err
			}
			req.Registration = args[0]
			var u *finesdk.User
			err = e.call(cmd.Context(), func(ctx context.Context) error {
				u, err = sess.AddVehicle(ctx, req)
				return err
			})
			if err != nil {
				return err
			}
			e.state.SetUser(u)
			printVehicles(e.out, u.Vehicles)
			return nil
		},
	}
	add.Flags().StringVar(&req.Make, "make", "", "Vehicle make")
	add.Flags().StringVar(&req.Model, "model", "", "Vehicle model")
	add.Flags().IntVar(&req.Year, "year", time.Now().Year(), "Model year")

	remove := &cobra.Command{
		Use:   "remove <vehicle-id>",
		Short: "Remove a vehicle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := e.requireUser()
			if err != nil {
				return err
			}
			var u *finesdk.User
			err = e.call(cmd.Context(), func(ctx context.Context) error {
				if err := sess.RemoveVehicle(ctx, args[0]); err != nil {
					return err
				}
				u, err = sess.Me(ctx)
				return err
			})
			if err != nil {
				return err
			}
			e.state.SetUser(u)
			fmt.Fprintln(e.out, "Vehicle removed.")
			return nil
		},
	}

	cmd.AddCommand(list, add, remove)
	return cmd
}
