package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/graduat/graduat-backend/internal/config"
	"github.com/graduat/graduat-backend/internal/database"
	"github.com/graduat/graduat-backend/internal/logger"
	"github.com/graduat/graduat-backend/internal/model"
)

// seedQuestion is one authored question: prompt, labeled options and the
// label of the correct one.
type seedQuestion struct {
	Prompt  string
	Options map[string]string
	Correct string
}

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

	fmt.Println("=== Seeding Weekly Tests ===")

	seeded := 0
	for subject, weeks := range seedContent() {
		for week, questions := range weeks {
			title := fmt.Sprintf("Semana %d - %s", week, subject)

			var existing uuid.UUID
			err := pool.QueryRow(ctx,
				`SELECT id FROM tests WHERE subject = $1 AND week_number = $2`,
				subject, week,
			).Scan(&existing)
			if err == nil {
				fmt.Printf("Skipping %q (already seeded as %s)\n", title, existing)
				continue
			}

			testID := uuid.New()
			_, err = pool.Exec(ctx,
				`INSERT INTO tests (id, subject, week_number, title) VALUES ($1, $2, $3, $4)`,
				testID, subject, week, title,
			)
			if err != nil {
				log.Fatal().Err(err).Str("title", title).Msg("Failed to insert test")
			}

			for i, q := range questions {
				opts, err := json.Marshal(q.Options)
				if err != nil {
					log.Fatal().Err(err).Msg("Failed to marshal options")
				}
				_, err = pool.Exec(ctx,
					`INSERT INTO questions (id, test_id, prompt, options, correct_answer, order_num)
					 VALUES ($1, $2, $3, $4, $5, $6)`,
					uuid.New(), testID, q.Prompt, opts, q.Correct, i+1,
				)
				if err != nil {
					log.Fatal().Err(err).Str("title", title).Msg("Failed to insert question")
				}
			}

			fmt.Printf("Seeded %q (%d questions) as %s\n", title, len(questions), testID)
			seeded++
		}
	}

	fmt.Printf("\nDone. %d tests seeded.\n", seeded)
}

func seedContent() map[model.Subject]map[int][]seedQuestion {
	return map[model.Subject]map[int][]seedQuestion{
		model.SubjectMatematicas: {
			1: {
				{"¿Cuánto es 7 × 8?", map[string]string{"a": "54", "b": "56", "c": "64"}, "b"},
				{"¿Cuánto es 125 ÷ 5?", map[string]string{"a": "25", "b": "20", "c": "30"}, "a"},
				{"¿Cuál es el perímetro de un cuadrado de lado 6?", map[string]string{"a": "12", "b": "36", "c": "24"}, "c"},
				{"¿Cuánto es 3/4 de 100?", map[string]string{"a": "75", "b": "50", "c": "80"}, "a"},
				{"Si x + 9 = 17, ¿cuánto vale x?", map[string]string{"a": "7", "b": "8", "c": "9"}, "b"},
			},
			2: {
				{"¿Cuánto es 15% de 200?", map[string]string{"a": "25", "b": "35", "c": "30"}, "c"},
				{"¿Cuál es el área de un triángulo de base 10 y altura 4?", map[string]string{"a": "20", "b": "40", "c": "14"}, "a"},
				{"¿Cuánto es 2³ + 3²?", map[string]string{"a": "15", "b": "17", "c": "13"}, "b"},
				{"¿Cuál es el mínimo común múltiplo de 4 y 6?", map[string]string{"a": "24", "b": "18", "c": "12"}, "c"},
				{"¿Cuánto es 0.5 + 0.25?", map[string]string{"a": "0.75", "b": "0.55", "c": "0.30"}, "a"},
			},
		},
		model.SubjectComunicacion: {
			1: {
				{"¿Cuál es el sujeto en \"María lee un libro\"?", map[string]string{"a": "lee", "b": "María", "c": "un libro"}, "b"},
				{"¿Qué es un sinónimo de \"veloz\"?", map[string]string{"a": "rápido", "b": "lento", "c": "fuerte"}, "a"},
				{"¿Cuántas sílabas tiene \"computadora\"?", map[string]string{"a": "4", "b": "6", "c": "5"}, "c"},
				{"¿Cuál palabra es aguda?", map[string]string{"a": "canción", "b": "árbol", "c": "lámpara"}, "a"},
				{"¿Qué signo cierra una pregunta?", map[string]string{"a": "¡", "b": "?", "c": "."}, "b"},
			},
			2: {
				{"¿Cuál es el antónimo de \"claro\"?", map[string]string{"a": "brillante", "b": "limpio", "c": "oscuro"}, "c"},
				{"¿Qué tipo de texto es una receta?", map[string]string{"a": "instructivo", "b": "narrativo", "c": "poético"}, "a"},
				{"¿Cuál es el verbo en \"El perro corre rápido\"?", map[string]string{"a": "perro", "b": "corre", "c": "rápido"}, "b"},
				{"¿Qué es una fábula?", map[string]string{"a": "una noticia", "b": "una carta", "c": "un relato con moraleja"}, "c"},
				{"¿Cuál palabra está bien escrita?", map[string]string{"a": "havía", "b": "había", "c": "abía"}, "b"},
			},
		},
	}
}
