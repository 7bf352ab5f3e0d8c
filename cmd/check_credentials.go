package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/teemow/unified-analytics/internal/analytics"
	"github.com/teemow/unified-analytics/internal/config"
	"github.com/teemow/unified-analytics/internal/ga4"
	"github.com/teemow/unified-analytics/internal/google"
	"github.com/teemow/unified-analytics/internal/logging"
	"github.com/teemow/unified-analytics/internal/server"
)

func newCheckCredentialsCmd() *cobra.Command {
	var (
		probe     bool
		probeDate string
	)

	cmd := &cobra.Command{
		Use:   "check-credentials",
		Short: "Verify the service account and site configuration",
		Long: `Load the environment, the site list and the service account key, mint an
access token and build the Search Console and GA4 clients. Each step is
reported on stdout. With --probe, every site is queried for one row from each
API to confirm the service account has been granted access.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := loadRuntime(cmd)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			check := credentialCheck{
				sites:     rt.sites,
				loader:    rt.loader,
				factory:   server.NewGoogleClientFactory(rt.loader, nil),
				logger:    logging.NewSlogAdapter(rt.logger),
				probe:     probe,
				probeDate: probeDate,
			}
			return check.run(ctx, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&probe, "probe", false, "Query every site for one row from each API")
	cmd.Flags().StringVar(&probeDate, "probe-date", "", "Date used by --probe in YYYY-MM-DD format (default: yesterday)")

	return cmd
}

type credentialCheck struct {
	sites     *config.Registry
	loader    *google.ServiceAccountLoader
	factory   server.ClientFactory
	logger    logging.Logger
	probe     bool
	probeDate string
}

// run executes every step and reports it to out. The first failing step ends
// the check with its error.
func (c credentialCheck) run(ctx context.Context, out io.Writer) error {
	logger := c.logger
	if logger == nil {
		logger = logging.NewSlogAdapter(nil)
	}

	report := func(ok bool, step, detail string) {
		mark := "ok"
		if !ok {
			mark = "FAIL"
		}
		fmt.Fprintf(out, "[%-4s] %-18s %s\n", mark, step, detail)
	}

	report(true, "sites", fmt.Sprintf("%d configured, default %q", c.sites.Len(), c.sites.Default().Key))

	conf, err := c.loader.Config()
	if err != nil {
		report(false, "credentials", err.Error())
		return err
	}
	report(true, "credentials", fmt.Sprintf("%s (%s)", c.loader.Path(), logging.AnonymizeEmail(conf.Email)))
	logger.Info("service account key loaded", logging.Principal(conf.Email))

	ts, err := c.loader.TokenSource(ctx)
	if err != nil {
		report(false, "access token", err.Error())
		return fmt.Errorf("failed to obtain access token: %w", err)
	}
	tok, err := ts.Token()
	if err != nil {
		report(false, "access token", err.Error())
		return fmt.Errorf("failed to obtain access token: %w", err)
	}
	report(true, "access token", "minted "+logging.SanitizeToken(tok.AccessToken))
	logger.Debug("access token minted", logging.Principal(conf.Email), slog.Time("expiry", tok.Expiry))

	handles, err := c.factory(ctx)
	if err != nil {
		report(false, "api clients", err.Error())
		return &analytics.InitializationError{Err: err}
	}
	report(true, "api clients", "searchconsole/v1, analyticsdata/v1beta")

	if !c.probe {
		return nil
	}

	date := c.probeDate
	if date == "" {
		date = time.Now().AddDate(0, 0, -1).Format("2006-01-02")
	}

	r := analytics.NewReporter(c.sites, handles)
	dr := analytics.DateRange{StartDate: date, EndDate: date}

	var failed int
	for _, site := range c.sites.Sites() {
		if _, err := r.TopQueries(ctx, site.Key, dr, 1); err != nil {
			report(false, "gsc "+site.Key, err.Error())
			failed++
		} else {
			report(true, "gsc "+site.Key, site.GSCURL)
		}

		if _, err := r.TrafficOverview(ctx, site.Key, dr); err != nil {
			report(false, "ga4 "+site.Key, err.Error())
			failed++
		} else {
			report(true, "ga4 "+site.Key, ga4.PropertyName(site.GA4PropertyID))
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d probe(s) failed", failed)
	}
	return nil
}
