package main

// Seed a demo company for local runs:
//   go run ./cmd/seed

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"hirewise-backend/internal/applications"
	"hirewise-backend/internal/bootstrap"
	"hirewise-backend/internal/companies"
	"hirewise-backend/internal/shared/config"
	"hirewise-backend/internal/users"
)

const demoPassword = "Interview#2025"

func main() {
	cfg := config.Load()
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	app, err := bootstrap.Build(ctx, cfg)
	if err != nil {
		log.Fatalf("bootstrap build: %v", err)
	}
	defer app.Close()
	if app.DB == nil {
		log.Printf("seed: no database configured; nothing would persist")
		os.Exit(1)
	}

	reg, err := app.CompaniesService.Register(ctx, companies.RegisterInput{
		CompanyName: "Acme Labs",
		Timezone:    cfg.BusinessTimezone,
		AdminName:   "Asha Admin",
		AdminEmail:  "admin@acme.test",
		Password:    demoPassword,
	})
	if errors.Is(err, users.ErrEmailTaken) {
		log.Printf("seed: demo company already present")
		return
	}
	if err != nil {
		log.Fatalf("seed company: %v", err)
	}
	companyID := reg.Company.ID

	members := []users.CreateInput{
		{Role: users.RoleHR, FullName: "Hema HR", Email: "hr@acme.test"},
		{Role: users.RoleInterviewer, FullName: "Ravi Kumar", Email: "ravi@acme.test"},
		{Role: users.RoleInterviewer, FullName: "Divya Nair", Email: "divya@acme.test"},
	}
	for _, m := range members {
		m.CompanyID = companyID
		m.Password = demoPassword
		if _, err := app.UsersService.Create(ctx, m); err != nil {
			log.Fatalf("seed user %s: %v", m.Email, err)
		}
	}

	repo := app.ApplicationsService.Repo
	job := applications.Job{ID: companyID + "-backend", CompanyID: companyID, Title: "Backend Engineer", Status: "open", CreatedAt: time.Now().UTC()}
	if err := repo.CreateJob(ctx, job); err != nil {
		log.Fatalf("seed job: %v", err)
	}
	for i, name := range []string{"Meera Iyer", "Karthik Rao", "Sana Sheikh"} {
		err := repo.Create(ctx, applications.Application{
			ID:             job.ID + "-app-" + string(rune('a'+i)),
			CompanyID:      companyID,
			JobID:          job.ID,
			CandidateName:  name,
			CandidateEmail: "candidate" + string(rune('1'+i)) + "@example.com",
			Status:         applications.StatusScreening,
			CreatedAt:      time.Now().UTC(),
		})
		if err != nil {
			log.Fatalf("seed application: %v", err)
		}
	}
	log.Printf("seed: company %s ready; sign in as admin@acme.test / hr@acme.test / ravi@acme.test", companyID)
}
