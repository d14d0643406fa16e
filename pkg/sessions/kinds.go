package sessions

// Kind is a session kind of a race weekend. The set is closed; mapping to
// provider codes is an exhaustive switch so a new kind cannot be added
// without deciding its code.
type Kind int

const (
	KindUnknown Kind = iota
	Practice1
	Practice2
	Practice3
	Qualifying
	Sprint
	Race
)

// QualiStage selects a stage within qualifying. StageAll means the whole
// qualifying session.
type QualiStage int

const (
	StageAll QualiStage = iota
	Q1
	Q2
	Q3
)

// SprintStage selects a stage within sprint qualifying. SprintRace means the
// sprint race itself.
type SprintStage int

const (
	SprintRace SprintStage = iota
	SQ1
	SQ2
	SQ3
)

func (k Kind) String() string {
	switch k {
	case Practice1:
		return "Practice 1"
	case Practice2:
		return "Practice 2"
	case Practice3:
		return "Practice 3"
	case Qualifying:
		return "Qualifying"
	case Sprint:
		return "Sprint"
	case Race:
		return "Race"
	}
	return "Unknown"
}

// ParseKind maps a session-kind name to its Kind.
func ParseKind(name string) (Kind, bool) {
	switch name {
	case "Practice 1":
		return Practice1, true
	case "Practice 2":
		return Practice2, true
	case "Practice 3":
		return Practice3, true
	case "Qualifying":
		return Qualifying, true
	case "Sprint":
		return Sprint, true
	case "Race":
		return Race, true
	}
	return KindUnknown, false
}

// ParseCode maps a provider session code back to a kind and stage selectors.
func ParseCode(code string) (Descriptor, bool) {
	switch code {
	case "FP1":
		return Descriptor{Kind: Practice1}, true
	case "FP2":
		return Descriptor{Kind: Practice2}, true
	case "FP3":
		return Descriptor{Kind: Practice3}, true
	case "Q":
		return Descriptor{Kind: Qualifying}, true
	case "Q1":
		return Descriptor{Kind: Qualifying, QualiStage: Q1}, true
	case "Q2":
		return Descriptor{Kind: Qualifying, QualiStage: Q2}, true
	case "Q3":
		return Descriptor{Kind: Qualifying, QualiStage: Q3}, true
	case "S":
		return Descriptor{Kind: Sprint}, true
	case "SQ1":
		return Descriptor{Kind: Sprint, SprintStage: SQ1}, true
	case "SQ2":
		return Descriptor{Kind: Sprint, SprintStage: SQ2}, true
	case "SQ3":
		return Descriptor{Kind: Sprint, SprintStage: SQ3}, true
	case "R":
		return Descriptor{Kind: Race}, true
	}
	return Descriptor{}, false
}

func (s QualiStage) code() (string, bool) {
	switch s {
	case StageAll:
		return "Q", true
	case Q1:
		return "Q1", true
	case Q2:
		return "Q2", true
	case Q3:
		return "Q3", true
	}
	return "", false
}

func (s SprintStage) code() (string, bool) {
	switch s {
	case SprintRace:
		return "S", true
	case SQ1:
		return "SQ1", true
	case SQ2:
		return "SQ2", true
	case SQ3:
		return "SQ3", true
	}
	return "", false
}
