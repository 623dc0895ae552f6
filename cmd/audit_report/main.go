package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"gabconcours_backend/internals/configs"
	database "gabconcours_backend/internals/databases"
	"gabconcours_backend/internals/features/administration/admin_actions/dto"
	"gabconcours_backend/internals/features/administration/admin_actions/repository"
	"gabconcours_backend/internals/helpers/dbtime"
	"gabconcours_backend/internals/logger"
)

func main() {
	var (
		from    = flag.String("from", "", "date de début YYYY-MM-DD (incluse)")
		to      = flag.String("to", "", "date de fin YYYY-MM-DD (incluse)")
		adminID = flag.Uint("admin", 0, "filtrer par admin (0 = tous)")
		etab    = flag.Uint("etablissement", 0, "filtrer par établissement (0 = tous)")
	)
	flag.Parse()

	configs.LoadEnv()
	logger.Init("warn", "console")
	cfg := configs.Load()

	f := dto.Filter{}
	var err error
	if f.DateDebut, err = dbtime.ParseDay(*from, cfg.Location); err != nil {
		fail("from: %v", err)
	}
	if f.DateFin, err = dbtime.ParseDay(*to, cfg.Location); err != nil {
		fail("to: %v", err)
	}
	if *adminID > 0 {
		id := *adminID
		f.AdminID = &id
	}
	if *etab > 0 {
		id := *etab
		f.EtablissementID = &id
	}

	db, err := database.ConnectDB()
	if err != nil {
		fail("database unavailable: %v", err)
	}
	defer database.Close(db)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	rows, err := repository.New(db, cfg.Location).Aggregate(ctx, f)
	if err != nil {
		fail("aggregate: %v", err)
	}

	color.Yellow("\nActions administrateur par jour")
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Date", "Total", "Validations", "Rejets", "Notes", "Réponses"})

	var total dto.DailyStat
	for _, r := range rows {
		table.Append([]string{
			r.Date,
			strconv.Itoa(r.TotalActions),
			strconv.Itoa(r.Validations),
			strconv.Itoa(r.Rejets),
			strconv.Itoa(r.Notes),
			strconv.Itoa(r.ReponsesMessages),
		})
		total.TotalActions += r.TotalActions
		total.Validations += r.Validations
		total.Rejets += r.Rejets
		total.Notes += r.Notes
		total.ReponsesMessages += r.ReponsesMessages
	}
	table.SetFooter([]string{
		"TOTAL",
		strconv.Itoa(total.TotalActions),
		strconv.Itoa(total.Validations),
		strconv.Itoa(total.Rejets),
		strconv.Itoa(total.Notes),
		strconv.Itoa(total.ReponsesMessages),
	})
	table.Render()
}

func fail(format string, args ...any) {
	color.Red(format, args...)
	fmt.Fprintln(os.Stderr)
	os.Exit(1)
}
