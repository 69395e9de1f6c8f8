package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"edu-entitlement-platform/internal/config"
	"edu-entitlement-platform/internal/domain/model"
	"edu-entitlement-platform/internal/domain/ports/repository"
	pg "edu-entitlement-platform/internal/infra/db/postgres"
	"edu-entitlement-platform/internal/infra/localstore"
)

func main() {
	// ---- Config ----
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var (
		userRepo    repository.UserDirectory
		catalogRepo repository.CatalogRepository
	)
	switch cfg.Store.Backend {
	case "postgres":
		pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 4)
		if err != nil {
			log.Fatalf("postgres: %v", err)
		}
		defer pool.Close()
		if err := pg.Migrate(ctx, pool); err != nil {
			log.Fatalf("migrate: %v", err)
		}
		userRepo = pg.NewUserRepo(pool)
		catalogRepo = pg.NewCatalogRepo(pool)
	default:
		store, err := localstore.Open(cfg.Store.Path)
		if err != nil {
			log.Fatalf("localstore: %v", err)
		}
		userRepo = localstore.NewUserRepo(store)
		catalogRepo = localstore.NewCatalogRepo(store)
	}

	// If units already exist, do nothing
	units, err := catalogRepo.ListUnits(ctx, repository.NoTX)
	if err != nil {
		log.Fatalf("list units: %v", err)
	}
	if len(units) > 0 {
		fmt.Printf("%d units already present. No changes.\n", len(units))
		return
	}

	teacherID := uuid.NewString()
	users := []*model.User{
		{ID: teacherID, Name: "Ms. Haddad", Role: model.UserRoleTeacher, RegisteredAt: time.Now()},
		{ID: uuid.NewString(), Name: "Sami", Role: model.UserRoleStudent, Grade: "grade-10", RegisteredAt: time.Now()},
		{ID: uuid.NewString(), Name: "Lina", Role: model.UserRoleStudent, Grade: "grade-11", RegisteredAt: time.Now()},
	}
	for _, u := range users {
		if err := userRepo.Save(ctx, repository.NoTX, u); err != nil {
			log.Fatalf("save user %q: %v", u.Name, err)
		}
		fmt.Printf("seeded user: %s (%s)\n", u.Name, u.Role)
	}

	seed := []*model.Unit{
		{ID: uuid.NewString(), TeacherID: teacherID, SubjectName: "Physics", Grade: "grade-10", Semester: "1"},
		{ID: uuid.NewString(), TeacherID: teacherID, SubjectName: "Physics", Grade: "grade-10", Semester: "2"},
		{ID: uuid.NewString(), TeacherID: teacherID, SubjectName: "Chemistry", Grade: "grade-11", Semester: "1"},
	}
	for _, u := range seed {
		if err := catalogRepo.SaveUnit(ctx, repository.NoTX, u); err != nil {
			log.Fatalf("save unit %q: %v", u.SubjectName, err)
		}
		fmt.Printf("seeded unit: %s %s/%s (id=%s)\n", u.SubjectName, u.Grade, u.Semester, u.ID)
	}

	lessons := []*model.Lesson{
		{ID: uuid.NewString(), UnitID: seed[0].ID, Title: "Motion and Inertia", Body: "An object at rest stays at rest unless acted on by a net force."},
		{ID: uuid.NewString(), UnitID: seed[2].ID, Title: "Atomic Structure", Body: "Protons and neutrons form the nucleus; electrons occupy shells around it."},
	}
	for _, l := range lessons {
		if err := catalogRepo.SaveLesson(ctx, repository.NoTX, l); err != nil {
			log.Fatalf("save lesson %q: %v", l.Title, err)
		}
		fmt.Printf("seeded lesson: %s (id=%s)\n", l.Title, l.ID)
	}

	fmt.Println("Seeding complete.")
}
