// Command seed populates the database with the demo dataset so the app has
// something to show on first run. Safe to re-run: it refuses to touch a
// non-empty database.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/your-org/conversa/internal/config"
	"github.com/your-org/conversa/internal/models"
	"github.com/your-org/conversa/internal/observability"
	"github.com/your-org/conversa/internal/people"
	"github.com/your-org/conversa/internal/storage"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	observability.SetupLogger(cfg.Logging.Level, "text")

	db, err := storage.NewPostgresStore(cfg.Database)
	if err != nil {
		slog.Error("connect to postgres", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.Migrate(ctx); err != nil {
		slog.Error("migrate schema", "error", err)
		os.Exit(1)
	}

	existing, err := db.ListPersons(ctx, 0, 1)
	if err != nil {
		slog.Error("check database", "error", err)
		os.Exit(1)
	}
	if len(existing) > 0 {
		slog.Info("database already contains data, skipping seed")
		return
	}

	if err := seed(ctx, db); err != nil {
		slog.Error("seed database", "error", err)
		os.Exit(1)
	}
	slog.Info("database seeded", "people", len(seedPeople), "conversations", len(seedConversations))
}

func seed(ctx context.Context, db *storage.PostgresStore) error {
	for i := range seedPeople {
		p := seedPeople[i]
		if err := db.CreatePerson(ctx, &p); err != nil {
			return err
		}
	}
	// Conversations go through RecordConversation so met_count/last_met
	// fall out of the recordings themselves rather than being hardcoded.
	for i := range seedConversations {
		conv := seedConversations[i]
		ok, err := db.RecordConversation(ctx, &conv, people.LastMetLabel(conv.Date))
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("person %s missing for conversation %s", conv.PersonID, conv.ID)
		}
	}
	return nil
}

var seedPeople = []models.Person{
	{
		ID:            "p1",
		Name:          "Sarah Chen",
		Role:          "Product Lead at Orio",
		AvatarColor:   "bg-indigo-200",
		Context:       "Met at the Design Systems conference last year. Looking for a co-founder.",
		Interests:     []string{"Ethical AI", "Hiking", "Ceramics"},
		OpenFollowUps: []string{"Send the deck regarding the Q3 proposal", "Intro her to Marcus"},
	},
	{
		ID:            "p2",
		Name:          "David Miller",
		Role:          "Freelance Architect",
		AvatarColor:   "bg-emerald-200",
		Context:       "Old college friend. Currently renovating a loft in Brooklyn.",
		Interests:     []string{"Sustainable materials", "Jazz", "Coffee brewing"},
		OpenFollowUps: []string{},
	},
	{
		ID:            "p3",
		Name:          "Elena Rostova",
		Role:          "Investor",
		AvatarColor:   "bg-orange-200",
		Context:       "Briefly introduced by Sarah. Interested in the memory space.",
		Interests:     []string{"Fintech", "Early stage B2B"},
		OpenFollowUps: []string{"Schedule a proper 30-min coffee chat"},
	},
}

// Oldest first so that each person's last_met lands on their newest
// conversation.
var seedConversations = []models.Conversation{
	{
		ID:           "c5",
		PersonID:     "p1",
		Participants: []string{"p1"},
		Title:        "Coffee & Ceramics",
		Date:         "Nov 24 • 4:00 PM",
		Location:     "Design Conf Mixer",
		Summary:      "First meeting. Connected over shared interest in ceramics and ethical AI.",
		KeyPoints: []string{
			"Sarah works at Orio.",
			"She runs a pottery studio on weekends.",
		},
		FullTranscript: "Sarah: Oh no way, I just bought a wheel last month! I'm trying to master centering. It's so much harder than it looks.",
		ActionItems: []models.ActionItem{
			{ID: "a5", ConversationID: "c5", Text: "Connect on LinkedIn", Completed: true},
		},
	},
	{
		ID:           "c4",
		PersonID:     "p1",
		Participants: []string{"p1"},
		Title:        "Design System Migration Sync",
		Date:         "Dec 10 • 11:00 AM",
		Location:     "Virtual Call",
		Summary:      "Initial sync regarding the design system migration. Agreed to use Figma variables.",
		KeyPoints: []string{
			"Migrating to variables in Q1.",
			"Need to audit existing color tokens.",
		},
		FullTranscript: "Sarah: Variables are going to save us so much time. We need to start with the color tokens first though. It's a mess in the legacy file.",
		ActionItems: []models.ActionItem{
			{ID: "a4", ConversationID: "c4", Text: "Run token audit", Completed: true},
		},
	},
	{
		ID:           "c3",
		PersonID:     "p3",
		Participants: []string{"p3"},
		Title:        "Intro to Invisible AI",
		Date:         "Jan 12 • 10:00 AM",
		Location:     "TechCrunch Disrupt",
		Summary:      "Introductory chat. Elena is looking for AI native apps in the productivity space.",
		KeyPoints: []string{
			"Elena invests in Pre-seed/Seed.",
			"Thesis is around 'invisible AI' interfaces.",
		},
		FullTranscript: "Elena: I see so many chat bots. I'm looking for things that disappear. AI shouldn't feel like a second person you have to manage; it should feel like an extension of your own capability.",
	},
	{
		ID:           "c2",
		PersonID:     "p2",
		Participants: []string{"p2"},
		Title:        "Brooklyn Project & Japan Trip",
		Date:         "Jan 14 • 6:00 PM",
		Location:     "The Jazz Corner",
		Summary:      "Casual catch-up. David is finishing the Brooklyn project next month. Talked about his upcoming trip to Japan.",
		KeyPoints: []string{
			"Brooklyn project wraps in Feb.",
			"He needs recommendation for hotels in Kyoto.",
			"Mentioned he is taking a break from contracting for 2 months.",
		},
		FullTranscript: "David: It's been a marathon, man. I'm taking two months off starting March.\n\nMe: Well deserved. You still heading to Japan?\n\nDavid: Yeah, Kyoto for ten days. I haven't booked a place yet though.\n\nMe: I have a list of spots from my last trip. I'll send them over.",
		ActionItems: []models.ActionItem{
			{ID: "a3", ConversationID: "c2", Text: "Send list of Kyoto recommendations", Completed: false},
		},
	},
	{
		ID:           "c1",
		PersonID:     "p1",
		Participants: []string{"p1", "p3"},
		Title:        "Q3 Beta Roadmap Review",
		Date:         "Jan 16 • 2:30 PM",
		Location:     "Blue Bottle Coffee",
		Summary:      "Discussed the roadmap for the Q3 beta launch. Sarah is concerned about the onboarding flow but loves the new visual direction.",
		KeyPoints: []string{
			"Sarah thinks the sign-up process has too many steps.",
			"Suggests moving the 'Personalization' screen to after account creation.",
			"She is available next Tuesday for a design review.",
		},
		FullTranscript: "Sarah: Thanks for meeting up. I've been looking over the Q3 mocks.\n\nMe: Of course. What are your initial thoughts?\n\nSarah: Visuals are stunning, but I really think we're losing people at step 3. It feels heavy. We should look at how Linear does their onboarding—it's much punchier.\n\nElena: I agree with Sarah on the friction. If we're targeting the prosumer market, every extra click is a drop-off point.\n\nMe: That makes sense. We could move the 'Personalization' screen to after the main dashboard setup.\n\nSarah: Exactly. Let's aim for a Tuesday design review to finalize that change.",
		ActionItems: []models.ActionItem{
			{ID: "a1", ConversationID: "c1", Text: "Mock up a shortened onboarding flow", Completed: false},
			{ID: "a2", ConversationID: "c1", Text: "Send calendar invite for Tuesday Design Review", Completed: false},
		},
	},
}
