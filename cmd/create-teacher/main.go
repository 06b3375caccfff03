package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"

	"github.com/graduat/graduat-backend/internal/config"
	"github.com/graduat/graduat-backend/internal/database"
	"github.com/graduat/graduat-backend/internal/logger"
	"github.com/graduat/graduat-backend/internal/model"
	"github.com/graduat/graduat-backend/internal/repository"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	teacherRepo := repository.NewTeacherRepository(pool)

	// ─── CLI Input ─────────────────────────────────────────────────────
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Create New Teacher (Maestro) ===")

	// Usuario
	fmt.Print("Enter Usuario: ")
	usuario, _ := reader.ReadString('\n')
	usuario = strings.TrimSpace(usuario)
	if usuario == "" {
		fmt.Println("Error: Usuario is required")
		return
	}

	// Name
	fmt.Print("Enter Name: ")
	nombre, _ := reader.ReadString('\n')
	nombre = strings.TrimSpace(nombre)
	if nombre == "" {
		fmt.Println("Error: Name is required")
		return
	}

	// Email
	fmt.Print("Enter Email: ")
	correo, _ := reader.ReadString('\n')
	correo = strings.TrimSpace(correo)
	if correo == "" {
		fmt.Println("Error: Email is required")
		return
	}

	// Institution code
	fmt.Print("Enter Institution Code: ")
	codigo, _ := reader.ReadString('\n')
	codigo = strings.TrimSpace(codigo)

	// Courses (drive subject scoping via CoursesToSubjects)
	fmt.Print("Enter Courses (comma separated, e.g. \"Matemáticas 5A, Comunicación 5A\"): ")
	cursosLine, _ := reader.ReadString('\n')
	cursos := splitCourses(cursosLine)
	if len(cursos) == 0 {
		fmt.Println("Error: at least one course is required")
		return
	}

	subjects := model.CoursesToSubjects(cursos).Strings()
	if len(subjects) == 0 {
		fmt.Println("Warning: courses match no known subject; teacher views will be empty")
	} else {
		fmt.Printf("Subjects: %s\n", strings.Join(subjects, ", "))
	}

	// Password
	fmt.Print("Enter Password: ")
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		fmt.Println("\nError reading password")
		return
	}
	password := string(bytePassword)
	fmt.Println() // Newline after password input
	if len(password) < 6 {
		fmt.Println("Error: Password must be at least 6 characters")
		return
	}

	// ─── Logic ─────────────────────────────────────────────────────────

	// Hash Password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), cfg.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to hash password")
	}

	newTeacher := &model.Teacher{
		Usuario:           usuario,
		Correo:            correo,
		Nombre:            nombre,
		Cursos:            cursos,
		PasswordHash:      string(hashedPassword),
		CodigoInstitucion: codigo,
	}

	if err := teacherRepo.Create(ctx, newTeacher); err != nil {
		log.Fatal().Err(err).Msg("Failed to create teacher")
	}

	fmt.Printf("\nSuccess! Teacher '%s' (%s) created with ID: %d\n", newTeacher.Nombre, newTeacher.Usuario, newTeacher.ID)
}

func splitCourses(line string) []string {
	parts := strings.Split(line, ",")
	cursos := make([]string, 0, len(parts))
	for _, p := range parts {
		if c := strings.TrimSpace(p); c != "" {
			cursos = append(cursos, c)
		}
	}
	return cursos
}
