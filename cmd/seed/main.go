package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/unach/escuela-backend/internal/config"
	"github.com/unach/escuela-backend/internal/database"
	"github.com/unach/escuela-backend/internal/logger"
	"github.com/unach/escuela-backend/internal/model"
	"github.com/unach/escuela-backend/internal/repository"
	"github.com/unach/escuela-backend/internal/service"
)

// quietEvents drops change events; nobody is listening during a seed.
type quietEvents struct{}

func (quietEvents) Notify(context.Context, model.ChangeTopic, model.ChangeAction, int) {}
func (quietEvents) DiscardPhoto(context.Context, string)                            {}

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	if _, err := service.NewSchemaService(cfg.DatabaseURL, log).EnsureSchema(); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate schema")
	}

	events := quietEvents{}
	teacherService := service.NewTeacherService(repository.NewTeacherRepository(pool), events, events, log)
	subjectService := service.NewSubjectService(repository.NewSubjectRepository(pool), events, log)
	studentService := service.NewStudentService(repository.NewStudentRepository(pool), events, events, log)
	relationService := service.NewRelationService(repository.NewRelationRepository(pool), events, log)

	fmt.Println("=== Seeding demo school records ===")

	teachers := []model.TeacherRequest{
		{Name: "María González", Email: "maria.gonzalez@escuela.mx"},
		{Name: "José Hernández", Email: "jose.hernandez@escuela.mx"},
		{Name: "Laura Martínez", Email: "laura.martinez@escuela.mx"},
	}
	teacherIDs := make([]int, 0, len(teachers))
	for _, req := range teachers {
		t, err := teacherService.Create(ctx, req)
		if err != nil {
			log.Fatal().Err(err).Str("nombre", req.Name).Msg("Failed to create teacher")
		}
		teacherIDs = append(teacherIDs, t.ID)
	}

	subjects := []model.SubjectRequest{
		{Name: "Matemáticas", Code: "MAT-101", Credits: 8},
		{Name: "Español", Code: "ESP-101", Credits: 6},
		{Name: "Ciencias Naturales", Code: "CNA-101", Credits: 6},
		{Name: "Historia", Code: "HIS-101", Credits: 4},
	}
	subjectIDs := make([]int, 0, len(subjects))
	for _, req := range subjects {
		s, err := subjectService.Create(ctx, req)
		if errors.Is(err, service.ErrDuplicateSubjectCode) {
			fmt.Printf("Subject %s already exists, skipping seed\n", req.Code)
			return
		}
		if err != nil {
			log.Fatal().Err(err).Str("codigo", req.Code).Msg("Failed to create subject")
		}
		subjectIDs = append(subjectIDs, s.ID)
	}

	// Teacher i teaches subject i, the first teacher also teaches the last subject.
	for i, subjectID := range subjectIDs {
		teacherID := teacherIDs[i%len(teacherIDs)]
		if _, err := relationService.AssignSubject(ctx, teacherID, subjectID); err != nil {
			log.Fatal().Err(err).Msg("Failed to assign subject")
		}
	}

	names := []string{
		"Ana López", "Carlos Ramírez", "Daniela Torres", "Eduardo Flores", "Fernanda Cruz",
		"Gabriel Morales", "Hilda Reyes", "Iván Jiménez", "Julia Vargas", "Kevin Castillo",
	}

	successCount := 0
	for i, name := range names {
		homeroom := teacherIDs[i%len(teacherIDs)]
		student, err := studentService.Create(ctx, model.StudentRequest{
			Name:      name,
			Grade:     i%6 + 1,
			Email:     fmt.Sprintf("alumno%02d@escuela.mx", i+1),
			TeacherID: &homeroom,
		})
		if err != nil {
			fmt.Printf("Error creating student %s: %v\n", name, err)
			continue
		}
		successCount++

		for j, subjectID := range subjectIDs {
			teacherID := teacherIDs[j%len(teacherIDs)]
			grade := float64(6+(i+j)%5) + 0.5
			req := model.EnrollRequest{SubjectID: subjectID, TeacherID: &teacherID, Grade: &grade}
			if _, err := relationService.Enroll(ctx, student.ID, req); err != nil {
				fmt.Printf("Error enrolling %s: %v\n", name, err)
			}
		}
	}

	fmt.Printf("\nSeed completed! Added %d/%d students.\n", successCount, len(names))
}
