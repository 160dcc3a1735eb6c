package main

import (
	"context"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/guiomkt/cheff-guio-sub000/internal/adapters/database"
	"github.com/guiomkt/cheff-guio-sub000/internal/application/services"
	"github.com/guiomkt/cheff-guio-sub000/internal/domain/entities"
	"github.com/guiomkt/cheff-guio-sub000/internal/infrastructure/clients/postgres"
	"github.com/guiomkt/cheff-guio-sub000/internal/infrastructure/observability"
	"github.com/guiomkt/cheff-guio-sub000/pkg/config"
)

const defaultSeedRestaurantID = "6f1c2a8e-3b4d-4e5f-8a9b-0c1d2e3f4a5b"

func strPtr(s string) *string {
	return &s
}

func intPtr(i int) *int {
	return &i
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	observability.InitLogger("cheff-guio-seed", cfg.Log.Env, cfg.Log.Level)

	ctx := context.Background()

	pgClient, err := postgres.NewClient(ctx, &cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to DB")
	}
	defer pgClient.Close()

	restaurantID := os.Getenv("SEED_RESTAURANT_ID")
	if restaurantID == "" {
		restaurantID = defaultSeedRestaurantID
	}

	if os.Getenv("RESET_DB") == "true" {
		log.Info().Msg("RESET_DB=true detected, truncating tables before seeding")
		_, err := pgClient.DB().ExecContext(ctx, `
			TRUNCATE TABLE
				waiting_list_notifications,
				waiting_list,
				tables,
				areas
			CASCADE
		`)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to truncate tables")
		}
	}

	areaRepo := database.NewAreaAdapter(pgClient)
	tableRepo := database.NewTableAdapter(pgClient)

	areas := []*entities.Area{
		{RestaurantID: restaurantID, Name: "Salão principal", MaxCapacity: 60, OrderIndex: 0, IsActive: true},
		{RestaurantID: restaurantID, Name: "Varanda", Description: strPtr("Área externa coberta"), MaxCapacity: 24, OrderIndex: 1, IsActive: true},
	}
	for _, area := range areas {
		if err := areaRepo.Create(ctx, area); err != nil {
			log.Fatal().Err(err).Str("area", area.Name).Msg("Failed to create area")
		}
	}

	// a 4x2 grid in the main hall and a row on the terrace
	number := 1
	for row := 0; row < 2; row++ {
		for col := 0; col < 4; col++ {
			shape := entities.TableShapeSquare
			capacity := 4
			if col == 3 {
				shape, capacity = entities.TableShapeRectangle, 6
			}
			table := &entities.Table{
				AreaID:    areas[0].ID,
				Number:    number,
				Capacity:  capacity,
				Shape:     shape,
				Width:     80,
				Height:    80,
				PositionX: float64(40 + col*200),
				PositionY: float64(40 + row*220),
				Status:    entities.TableStatusAvailable,
				IsActive:  true,
			}
			if err := tableRepo.Create(ctx, table); err != nil {
				log.Fatal().Err(err).Int("number", number).Msg("Failed to create table")
			}
			number++
		}
	}
	for i := 0; i < 3; i++ {
		table := &entities.Table{
			AreaID:    areas[1].ID,
			Number:    number,
			Capacity:  2,
			Shape:     entities.TableShapeRound,
			Width:     70,
			Height:    70,
			PositionX: float64(40 + i*160),
			PositionY: 60,
			Status:    entities.TableStatusAvailable,
			IsActive:  true,
		}
		if err := tableRepo.Create(ctx, table); err != nil {
			log.Fatal().Err(err).Int("number", number).Msg("Failed to create table")
		}
		number++
	}

	// no notifier: seeding must not message anyone
	waitingList := services.NewWaitingList(restaurantID, database.NewWaitingListAdapter(pgClient), nil, nil)
	if err := waitingList.Refresh(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to load waiting list")
	}

	drafts := []entities.WaitingEntryDraft{
		{CustomerName: "Ana Souza", PhoneNumber: "+5511987650001", PartySize: 2, Priority: entities.PriorityMedium, EstimatedWaitTime: intPtr(15)},
		{CustomerName: "Bruno Lima", PhoneNumber: "+5511987650002", PartySize: 4, Priority: entities.PriorityLow, AreaPreference: strPtr(areas[1].ID)},
		{CustomerName: "Carla Mendes", PhoneNumber: "+5511987650003", PartySize: 6, Priority: entities.PriorityHigh, Notes: strPtr("Cadeira para bebê")},
		{CustomerName: "Diego Rocha", PhoneNumber: "+5511987650004", PartySize: 3, Priority: entities.PriorityMedium},
	}
	for _, draft := range drafts {
		entry, err := waitingList.AddEntry(ctx, draft)
		if err != nil {
			log.Fatal().Err(err).Str("customer", draft.CustomerName).Msg("Failed to add waiting entry")
		}
		log.Info().Str("customer", entry.CustomerName).Int("queue_number", entry.QueueNumber).Msg("Seeded waiting entry")
	}

	log.Info().
		Str("restaurant_id", restaurantID).
		Int("areas", len(areas)).
		Int("tables", number-1).
		Int("waiting", len(waitingList.Entries())).
		Msg("Seeding completed")
}
