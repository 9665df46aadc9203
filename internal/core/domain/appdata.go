package domain

// GeoPoint is a geographic coordinate pair.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Route is a collection route shown in the operations app.
type Route struct {
	ID        string     `json:"id" validate:"required"`
	Name      string     `json:"name" validate:"required"`
	Positions []GeoPoint `json:"positions"`
}

// ChecklistItem is one compliance checklist entry.
type ChecklistItem struct {
	ID      string `json:"id" validate:"required"`
	Label   string `json:"label" validate:"required"`
	Checked bool   `json:"checked"`
}

// Transaction is one payment record.
type Transaction struct {
	ID        string `json:"id" validate:"required"`
	Date      string `json:"date" validate:"required"`
	Amount    string `json:"amount" validate:"required"`
	Status    string `json:"status" validate:"required"`
	Recipient string `json:"recipient,omitempty"`
}

// Listing is one marketplace listing.
type Listing struct {
	ID       int64  `json:"id"`
	Name     string `json:"name" validate:"required"`
	Price    string `json:"price" validate:"required"`
	Category string `json:"category" validate:"required"`
	Image    string `json:"image"`
}

// QuizQuestion is a single training quiz question.
type QuizQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
}

// Badge is the reward attached to a training course.
type Badge struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// TrainingCourse tracks a user's progress through one course.
type TrainingCourse struct {
	ID        int            `json:"id" validate:"required"`
	Title     string         `json:"title" validate:"required"`
	Duration  string         `json:"duration"`
	Completed bool           `json:"completed"`
	Started   bool           `json:"started"`
	Score     float64        `json:"score"`
	Quiz      []QuizQuestion `json:"quiz"`
	Badge     Badge          `json:"badge"`
}

// LeaderboardEntry is one row of the training leaderboard.
type LeaderboardEntry struct {
	Rank   int    `json:"rank" validate:"required"`
	Name   string `json:"name" validate:"required"`
	Points int    `json:"points"`
	Avatar string `json:"avatar"`
}

// AppData is the authoritative per-user business-data blob: every named
// app-data collection the shell's applications read and write.
type AppData struct {
	Routes           []Route            `json:"routes" bson:"routes"`
	Checklist        []ChecklistItem    `json:"checklist" bson:"checklist"`
	Transactions     []Transaction      `json:"transactions" bson:"transactions"`
	Listings         []Listing          `json:"listings" bson:"listings"`
	TrainingProgress []TrainingCourse   `json:"trainingProgress" bson:"training_progress"`
	Leaderboard      []LeaderboardEntry `json:"leaderboard" bson:"leaderboard"`
}

// DefaultAppData builds a fresh default dataset. Every call allocates new
// slices so no two users can ever alias the same backing arrays.
func DefaultAppData() AppData {
	return AppData{
		Routes: []Route{
			{ID: "R001", Name: "Route 1 (Sandton)", Positions: []GeoPoint{{Lat: -26.1, Lng: 28.05}}},
			{ID: "R002", Name: "Route 2 (Midrand)", Positions: []GeoPoint{{Lat: -26.0, Lng: 28.08}}},
			{ID: "R003", Name: "Route 3 (Soweto)", Positions: []GeoPoint{{Lat: -26.25, Lng: 28.0}}},
		},
		Checklist: []ChecklistItem{
			{ID: "c1", Label: "Waste Carrier License up-to-date", Checked: true},
			{ID: "c2", Label: "Vehicle maintenance logs complete", Checked: true},
			{ID: "c3", Label: "Driver training records verified", Checked: false},
			{ID: "c4", Label: "Waste transfer notes correctly filed", Checked: true},
			{ID: "c5", Label: "Health & Safety audit passed", Checked: false},
		},
		Transactions: []Transaction{
			{ID: "T001", Date: "2023-10-26", Amount: "R 1,500.00", Status: "Completed"},
			{ID: "T002", Date: "2023-10-25", Amount: "R 850.00", Status: "Completed"},
		},
		Listings: []Listing{
			{ID: 1, Name: "Refurbished Laptops (x10)", Price: "R 15,000", Category: "E-Waste", Image: "https://images.unsplash.com/photo-1517336712462-83603c1f1667?auto=format&fit=crop&q=80&w=800"},
			{ID: 2, Name: "Scrap Metal Bundle", Price: "R 5,000", Category: "Metals", Image: "https://images.unsplash.com/photo-1558486012-817176f84c6d?auto=format&fit=crop&q=80&w=800"},
		},
		TrainingProgress: []TrainingCourse{
			{
				ID: 1, Title: "Safety in Waste Handling", Duration: "45 mins",
				Completed: true, Started: true, Score: 1.0,
				Quiz:  []QuizQuestion{{Question: "What is PPE?", Options: []string{"Personal Protective Equipment", "Public Power Entry"}, CorrectAnswer: "Personal Protective Equipment"}},
				Badge: Badge{Name: "Safety Star", Color: "text-blue-500"},
			},
			{
				ID: 2, Title: "e-Waste Sorting", Duration: "1 hour",
				Completed: false, Started: false, Score: 0,
				Quiz:  []QuizQuestion{{Question: "Is lead harmful?", Options: []string{"Yes", "No"}, CorrectAnswer: "Yes"}},
				Badge: Badge{Name: "e-Waste Expert", Color: "text-green-500"},
			},
		},
		Leaderboard: []LeaderboardEntry{
			{Rank: 1, Name: "John Doe", Points: 1500, Avatar: "https://i.pravatar.cc/150?u=1"},
			{Rank: 2, Name: "Jane Smith", Points: 1350, Avatar: "https://i.pravatar.cc/150?u=2"},
			{Rank: 3, Name: "You", Points: 1200, Avatar: "https://i.pravatar.cc/150?u=3"},
		},
	}
}

// Clone deep-copies the blob so callers can hand it out without sharing
// mutable backing arrays.
func (d AppData) Clone() AppData {
	out := AppData{
		Routes:           make([]Route, len(d.Routes)),
		Checklist:        append([]ChecklistItem(nil), d.Checklist...),
		Transactions:     append([]Transaction(nil), d.Transactions...),
		Listings:         append([]Listing(nil), d.Listings...),
		TrainingProgress: make([]TrainingCourse, len(d.TrainingProgress)),
		Leaderboard:      append([]LeaderboardEntry(nil), d.Leaderboard...),
	}
	for i, r := range d.Routes {
		r.Positions = append([]GeoPoint(nil), r.Positions...)
		out.Routes[i] = r
	}
	for i, c := range d.TrainingProgress {
		quiz := make([]QuizQuestion, len(c.Quiz))
		for j, q := range c.Quiz {
			q.Options = append([]string(nil), q.Options...)
			quiz[j] = q
		}
		c.Quiz = quiz
		out.TrainingProgress[i] = c
	}
	return out
}
