package schedule

import "time"

// projectedSeason is the first season the static projected data below
// describes. Seasons from here on fall back to it when the provider has no
// calendar yet.
const projectedSeason = 2025

type projectedRace struct {
	round    int
	name     string
	date     string
	circuit  string
	locality string
	country  string
}

var projectedCalendar = []projectedRace{
	{1, "Bahrain Grand Prix", "2025-03-02", "Bahrain International Circuit", "Sakhir", "Bahrain"},
	{2, "Saudi Arabian Grand Prix", "2025-03-09", "Jeddah Corniche Circuit", "Jeddah", "Saudi Arabia"},
	{3, "Australian Grand Prix", "2025-03-23", "Albert Park Grand Prix Circuit", "Melbourne", "Australia"},
	{4, "Japanese Grand Prix", "2025-04-06", "Suzuka Circuit", "Suzuka", "Japan"},
	{5, "Chinese Grand Prix", "2025-04-20", "Shanghai International Circuit", "Shanghai", "China"},
	{6, "Miami Grand Prix", "2025-05-04", "Miami International Autodrome", "Miami", "USA"},
	{7, "Emilia Romagna Grand Prix", "2025-05-18", "Autodromo Enzo e Dino Ferrari", "Imola", "Italy"},
	{8, "Monaco Grand Prix", "2025-05-25", "Circuit de Monaco", "Monte-Carlo", "Monaco"},
	{9, "Canadian Grand Prix", "2025-06-08", "Circuit Gilles Villeneuve", "Montreal", "Canada"},
	{10, "Spanish Grand Prix", "2025-06-22", "Circuit de Barcelona-Catalunya", "Montmeló", "Spain"},
	{11, "Austrian Grand Prix", "2025-06-29", "Red Bull Ring", "Spielberg", "Austria"},
	{12, "British Grand Prix", "2025-07-06", "Silverstone Circuit", "Silverstone", "UK"},
	{13, "Hungarian Grand Prix", "2025-07-27", "Hungaroring", "Budapest", "Hungary"},
	{14, "Belgian Grand Prix", "2025-08-03", "Circuit de Spa-Francorchamps", "Spa", "Belgium"},
	{15, "Dutch Grand Prix", "2025-08-24", "Circuit Zandvoort", "Zandvoort", "Netherlands"},
	{16, "Italian Grand Prix", "2025-08-31", "Autodromo Nazionale Monza", "Monza", "Italy"},
	{17, "Azerbaijan Grand Prix", "2025-09-14", "Baku City Circuit", "Baku", "Azerbaijan"},
	{18, "Singapore Grand Prix", "2025-09-21", "Marina Bay Street Circuit", "Singapore", "Singapore"},
	{19, "United States Grand Prix", "2025-10-19", "Circuit of the Americas", "Austin", "USA"},
	{20, "Mexico City Grand Prix", "2025-10-26", "Autódromo Hermanos Rodríguez", "Mexico City", "Mexico"},
	{21, "São Paulo Grand Prix", "2025-11-09", "Autódromo José Carlos Pace", "São Paulo", "Brazil"},
	{22, "Las Vegas Grand Prix", "2025-11-23", "Las Vegas Strip Circuit", "Las Vegas", "USA"},
	{23, "Qatar Grand Prix", "2025-11-30", "Losail International Circuit", "Lusail", "Qatar"},
	{24, "Abu Dhabi Grand Prix", "2025-12-07", "Yas Marina Circuit", "Abu Dhabi", "UAE"},
}

var projectedDrivers = []Driver{
	{ID: "max_verstappen", Code: "VER", Number: "1", Name: "Max Verstappen", Team: "Red Bull Racing", Projected: true},
	{ID: "lando_norris", Code: "NOR", Number: "4", Name: "Lando Norris", Team: "McLaren", Projected: true},
	{ID: "kimi_antonelli", Code: "ANT", Number: "12", Name: "Kimi Antonelli", Team: "Mercedes", Projected: true},
	{ID: "oscar_piastri", Code: "PIA", Number: "81", Name: "Oscar Piastri", Team: "McLaren", Projected: true},
	{ID: "george_russell", Code: "RUS", Number: "63", Name: "George Russell", Team: "Mercedes", Projected: true},
	{ID: "carlos_sainz", Code: "SAI", Number: "55", Name: "Carlos Sainz", Team: "Williams", Projected: true},
	{ID: "alex_albon", Code: "ALB", Number: "23", Name: "Alexander Albon", Team: "Williams", Projected: true},
	{ID: "charles_leclerc", Code: "LEC", Number: "16", Name: "Charles Leclerc", Team: "Ferrari", Projected: true},
	{ID: "esteban_ocon", Code: "OCO", Number: "31", Name: "Esteban Ocon", Team: "Haas F1 Team", Projected: true},
	{ID: "yuki_tsunoda", Code: "TSU", Number: "22", Name: "Yuki Tsunoda", Team: "Red Bull Racing", Projected: true},
	{ID: "isack_hadjar", Code: "HAD", Number: "6", Name: "Isack Hadjar", Team: "Racing Bulls", Projected: true},
	{ID: "lewis_hamilton", Code: "HAM", Number: "44", Name: "Lewis Hamilton", Team: "Ferrari", Projected: true},
	{ID: "gabriel_bortoleto", Code: "BOR", Number: "5", Name: "Gabriel Bortoleto", Team: "Kick Sauber", Projected: true},
	{ID: "jack_doohan", Code: "DOO", Number: "7", Name: "Jack Doohan", Team: "Alpine", Projected: true},
	{ID: "liam_lawson", Code: "LAW", Number: "30", Name: "Liam Lawson", Team: "Racing Bulls", Projected: true},
	{ID: "nico_hulkenberg", Code: "HUL", Number: "27", Name: "Nico Hülkenberg", Team: "Kick Sauber", Projected: true},
	{ID: "fernando_alonso", Code: "ALO", Number: "14", Name: "Fernando Alonso", Team: "Aston Martin", Projected: true},
	{ID: "pierre_gasly", Code: "GAS", Number: "10", Name: "Pierre Gasly", Team: "Alpine", Projected: true},
	{ID: "lance_stroll", Code: "STR", Number: "18", Name: "Lance Stroll", Team: "Aston Martin", Projected: true},
	{ID: "oliver_bearman", Code: "BEA", Number: "87", Name: "Oliver Bearman", Team: "Haas F1 Team", Projected: true},
}

// ProjectedCalendar returns the static projected season, every event flagged
// as projected.
func ProjectedCalendar() []Event {
	events := make([]Event, 0, len(projectedCalendar))
	for _, r := range projectedCalendar {
		date, _ := time.Parse("2006-01-02", r.date)
		events = append(events, Event{
			Season:    projectedSeason,
			Round:     r.round,
			Name:      r.name,
			Circuit:   r.circuit,
			Locality:  r.locality,
			Country:   r.country,
			Date:      date,
			Projected: true,
		})
	}
	return events
}

// ProjectedDrivers returns the static projected lineup.
func ProjectedDrivers() []Driver {
	out := make([]Driver, len(projectedDrivers))
	copy(out, projectedDrivers)
	return out
}
