package services

import (
	"fmt"
	"time"

	"conexa/app/models"
)

// SeedPassword is the password of every seeded account.
const SeedPassword = "conexa123"

// SeedResult counts what Seed created.
type SeedResult struct {
	Forums, Users, Posts, Comments, Listings int
}

// Seed fills an empty store with demo forums, accounts, posts and market
// listings. A store that already has forums is left alone.
func (s *Services) Seed() (SeedResult, error) {
	var res SeedResult

	existing, err := s.Forums.ListForums()
	if err != nil {
		return res, err
	}
	if len(existing) > 0 {
		return res, nil
	}

	forums := []*models.Forum{
		{ID: "rutas", Title: "Rutas y Pasos", Description: "Estado de rutas, pasos fronterizos y desvíos."},
		{ID: "puertos", Title: "Puertos", Description: "Novedades de terminales y turnos de carga."},
		{ID: "aduana", Title: "Aduana", Description: "Trámites, demoras y normativa."},
		{ID: "tarifas", Title: "Tarifas", Description: ""},
	}
	for _, f := range forums {
		if err := s.Forums.CreateForum(f); err != nil {
			return res, fmt.Errorf("seed forum %s: %w", f.ID, err)
		}
		res.Forums++
	}

	ana, err := s.Auth.Register("ana@conexa.test", "Ana Paz", SeedPassword, models.RoleDualOperator)
	if err != nil {
		return res, fmt.Errorf("seed user: %w", err)
	}
	beto, err := s.Auth.Register("beto@conexa.test", "Beto Ruiz", SeedPassword, "transportista")
	if err != nil {
		return res, fmt.Errorf("seed user: %w", err)
	}
	res.Users = 2

	rutas := "rutas"
	posts := []struct {
		author *models.User
		in     PostInput
	}{
		{ana, PostInput{Title: "Paso Cristo Redentor cerrado", Content: "Cierre preventivo por nevadas hasta nuevo aviso.", TopicID: &rutas}},
		{beto, PostInput{Title: "¿Alguien va a Rosario esta semana?", Content: "Busco completar carga de retorno."}},
	}
	var first *models.Post
	for _, p := range posts {
		post, err := s.Posts.CreatePost(p.author, p.in)
		if err != nil {
			return res, fmt.Errorf("seed post: %w", err)
		}
		if first == nil {
			first = post
		}
		res.Posts++
	}

	if _, err := s.Comments.CreateComment(beto, first.ID, CommentInput{Content: "Confirmado, Gendarmería informa reapertura el jueves."}); err != nil {
		return res, fmt.Errorf("seed comment: %w", err)
	}
	res.Comments++

	ready := time.Now().AddDate(0, 0, 3)
	listings := []*models.MarketItem{
		{Origin: "Rosario", Destination: "Córdoba", VehicleType: "semirremolque", CargoType: "granos", WeightKg: 28000, AvailableDate: &ready, ContactName: "Ana Paz"},
		{Origin: "Mendoza", Destination: "Santiago de Chile", RequiredVehicleType: "furgón", CargoType: "vinos", WeightKg: 12000, Description: "Cajas paletizadas."},
	}
	for _, item := range listings {
		if err := s.Market.CreateItem(item); err != nil {
			return res, fmt.Errorf("seed listing: %w", err)
		}
		res.Listings++
	}
	return res, nil
}
