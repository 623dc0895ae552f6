package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"

	"gabconcours_backend/internals/configs"
	database "gabconcours_backend/internals/databases"
	"gabconcours_backend/internals/features/administration/admins/dto"
	"gabconcours_backend/internals/features/administration/admins/model"
	"gabconcours_backend/internals/features/administration/admins/service"
	"gabconcours_backend/internals/features/notifications/templates"
	"gabconcours_backend/internals/helpers/apperr"
	"gabconcours_backend/internals/logger"
)

func main() {
	var (
		nom      = flag.String("nom", "", "nom de famille")
		prenom   = flag.String("prenom", "", "prénom")
		email    = flag.String("email", "", "email (identifiant de connexion)")
		role     = flag.String("role", model.RoleAdmin, "admin | super_admin")
		etab     = flag.Uint("etablissement", 0, "id établissement (0 = aucun)")
		password = flag.String("password", "", "mot de passe (vide = généré et envoyé par email)")
	)
	flag.Parse()

	if *nom == "" || *prenom == "" || *email == "" {
		color.Red("nom, prenom et email sont obligatoires")
		flag.Usage()
		os.Exit(2)
	}
	if *password != "" && len(*password) < 8 {
		color.Red("le mot de passe doit contenir au moins 8 caractères")
		os.Exit(2)
	}
	if *role != model.RoleAdmin && *role != model.RoleSuperAdmin {
		color.Red("role invalide: %s", *role)
		os.Exit(2)
	}

	configs.LoadEnv()
	logger.Init("warn", "console")
	cfg := configs.Load()

	db, err := database.ConnectDB()
	if err != nil {
		color.Red("database unavailable: %v", err)
		os.Exit(1)
	}
	defer database.Close(db)

	mail, err := templates.New(cfg.AppURL, cfg.Location)
	if err != nil {
		color.Red("templates: %v", err)
		os.Exit(1)
	}
	svc := service.New(db, mail, logger.With("add_admin").Level(zerolog.WarnLevel))

	req := dto.CreateRequest{Nom: *nom, Prenom: *prenom, Email: *email, Role: *role, Password: *password}
	if *etab > 0 {
		id := *etab
		req.EtablissementID = &id
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	m, err := svc.Create(ctx, req)
	if err != nil {
		color.Red("création impossible: %s", apperr.MessageOf(err))
		os.Exit(1)
	}
	color.Green("administrateur #%d créé (%s, %s)", m.ID, m.Email, m.Role)
	color.Yellow("email d'identifiants placé dans la file d'envoi")
}
