package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/joho/godotenv"

	"podcastcrm/internal/database"
	"podcastcrm/internal/domain/admin"
	"podcastcrm/internal/domain/catalog"
	"podcastcrm/internal/domain/lead"
)

func main() {
	withLeads := flag.Bool("leads", false, "also insert demo leads")
	hash := flag.String("hash-password", "", "print a bcrypt hash for ADMIN_PASSWORD_HASH and exit")
	flag.Parse()

	if *hash != "" {
		h, err := admin.HashPassword(*hash)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(h)
		return
	}

	_ = godotenv.Load()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "podcast_seed.db"
		log.Println("DATABASE_URL is empty, seeding", dsn)
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}
	ctx := context.Background()

	episodes, err := catalog.SeedEpisodes()
	if err != nil {
		log.Fatal("read seed episodes:", err)
	}
	episodeRepo := catalog.NewRepository(db)
	if err := episodeRepo.Migrate(); err != nil {
		log.Fatal("migrate episodes:", err)
	}
	if err := episodeRepo.Upsert(ctx, episodes); err != nil {
		log.Fatal("upsert episodes:", err)
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"ID", "Title", "Published"})
	for _, e := range episodes {
		tw.AppendRow(table.Row{e.ID, e.Title, e.PublishedAt.Format("2006-01-02")})
	}
	tw.Render()

	if !*withLeads {
		return
	}

	repo := lead.NewRepository(db)
	if err := repo.Migrate(); err != nil {
		log.Fatal("migrate leads:", err)
	}
	store := lead.NewStore(repo, nil, nil, nil)
	for _, in := range demoLeads() {
		if _, err := store.Create(ctx, in); err != nil {
			log.Fatal("create lead:", err)
		}
	}

	leads, err := store.List(ctx)
	if err != nil {
		log.Fatal("list leads:", err)
	}
	lt := table.NewWriter()
	lt.SetOutputMirror(os.Stdout)
	lt.SetStyle(table.StyleRounded)
	lt.AppendHeader(table.Row{"Name", "Email", "Source", "Status"})
	for _, l := range leads {
		lt.AppendRow(table.Row{l.Name, l.Email, l.Source, l.Status})
	}
	lt.Render()
}

func demoLeads() []lead.Input {
	return []lead.Input{
		{Name: "Jana Nováková", Email: "jana@example.com", Interest: "Mentoring", Source: lead.SourceContactForm, Tags: []string{"Web Inquiry"}},
		{Name: "Petr Svoboda", Email: "petr@example.com", Phone: "+420 777 123 456", Interest: "Chatbot Conversation", Source: lead.SourceChatbot, Tags: []string{"AI Lead"}},
		{Name: "Eva Dvořáková", Email: "eva@example.com", Interest: "YouTube kurz", Source: lead.SourceLandingYouTube},
		{Name: "Tomáš Černý", Email: "tomas@example.com", Interest: "E-book", Source: lead.SourceEbook},
	}
}
