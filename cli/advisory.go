package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"agroverse/advisory"
	"agroverse/errx"
	"agroverse/utils"
)

const coordinatesMessage = "Please give -lat and -lon as decimal degrees."

func (a *App) advisory(ctx context.Context, args []string) error {
	run, rest, err := subcommand("advisory", args, map[string]func(context.Context, []string) error{
		"advice": func(_ context.Context, args []string) error {
			fs := a.flags("advisory advice", "-crop CROP -soil SOIL")
			crop := fs.String("crop", "", "one of "+strings.Join(advisory.CropOptions, ", "))
			soil := fs.String("soil", "", "one of "+strings.Join(advisory.SoilOptions, ", "))
			if err := parse(fs, args); err != nil {
				return err
			}
			fmt.Fprintln(a.out, advisory.Advice(*crop, *soil))
			return nil
		},
		"calendar": func(_ context.Context, args []string) error {
			fs := a.flags("advisory calendar", "[-state STATE]")
			state := fs.String("state", "", "state; lists the states when omitted")
			if err := parse(fs, args); err != nil {
				return err
			}
			if *state == "" {
				fmt.Fprintln(a.out, strings.Join(advisory.States(), "\n"))
				return nil
			}
			entries, err := advisory.Calendar(*state)
			if err != nil {
				return err
			}
			for _, e := range entries {
				fmt.Fprintln(a.out, e.State)
				fmt.Fprintf(a.out, "  Kharif (%s): %s\n", strings.Join(e.Kharif.Months, ", "), strings.Join(e.Kharif.Crops, ", "))
				fmt.Fprintf(a.out, "  Rabi (%s): %s\n", strings.Join(e.Rabi.Months, ", "), strings.Join(e.Rabi.Crops, ", "))
			}
			return nil
		},
		"prices": func(_ context.Context, args []string) error {
			fs := a.flags("advisory prices", "[-state STATE] [-commodity COMMODITY]")
			state := fs.String("state", "", "one of "+strings.Join(advisory.PriceStates(), ", "))
			commodity := fs.String("commodity", "", "one of "+strings.Join(advisory.PriceCommodities(), ", "))
			if err := parse(fs, args); err != nil {
				return err
			}
			records := advisory.Prices(*state, *commodity)
			if len(records) == 0 {
				fmt.Fprintln(a.out, "No price data for this selection.")
				return nil
			}
			tw := table(a.out)
			fmt.Fprintln(tw, "DATE\tSTATE\tMARKET\tCOMMODITY\tMIN\tMAX\tMODAL")
			for _, r := range records {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					r.ArrivalDate, r.State, r.Market, r.Commodity, r.MinPrice, r.MaxPrice, r.ModalPrice)
			}
			return tw.Flush()
		},
		"weather": func(ctx context.Context, args []string) error {
			fs := a.flags("advisory weather", "-lat LAT -lon LON")
			latText := fs.String("lat", "", "latitude")
			lonText := fs.String("lon", "", "longitude")
			if err := parse(fs, args); err != nil {
				return err
			}
			lat, okLat := utils.ParseCoordinate(*latText, 90)
			lon, okLon := utils.ParseCoordinate(*lonText, 180)
			if !okLat || !okLon {
				return errx.Invalid(coordinatesMessage)
			}
			w, err := a.kmitra.Weather(ctx, lat, lon)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, advisory.FormatWeather(w))
			return nil
		},
		"news": func(ctx context.Context, _ []string) error {
			articles, err := a.kmitra.News(ctx)
			if err != nil {
				return err
			}
			if len(articles) == 0 {
				fmt.Fprintln(a.out, "No news right now.")
				return nil
			}
			for _, art := range articles {
				fmt.Fprintln(a.out, art.Title)
				meta := art.Source.Name
				if !art.PublishedAt.IsZero() {
					meta += " · " + art.PublishedAt.Local().Format(time.DateOnly)
				}
				fmt.Fprintf(a.out, "  %s\n", meta)
				if art.Description != "" {
					fmt.Fprintf(a.out, "  %s\n", art.Description)
				}
				fmt.Fprintf(a.out, "  %s\n", art.URL)
			}
			return nil
		},
	})
	if err != nil {
		return err
	}
	return run(ctx, rest)
}
