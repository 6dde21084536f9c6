package entity

import "time"

const (
	CfgPath = "./config/config.yaml"

	DefaultPrecision  = 2
	DefaultDelay      = time.Second
	DefaultResetDelay = 300 * time.Millisecond

	NameA = "Desafiante (Mazda RX-7)"
	NameB = "DK (Nissan 350Z)"
)

// Competitor — кто из двоих
type Competitor int

const (
	CompetitorA Competitor = iota + 1
	CompetitorB
)

func (c Competitor) String() string {
	switch c {
	case CompetitorA:
		return "A"
	case CompetitorB:
		return "B"
	}
	return "?"
}

// Field — поле формы, имена как в исходной форме
type Field string

const (
	FieldDistance Field = "distancia"
	FieldSpeedA   Field = "velocidadeDesafiante"
	FieldSpeedB   Field = "velocidadeDK"
	FieldBonusA   Field = "bonusDriftDesafiante"
	FieldBonusB   Field = "bonusDriftDK"
)

// Fields в порядке отображения
var Fields = []Field{FieldDistance, FieldSpeedA, FieldSpeedB, FieldBonusA, FieldBonusB}

// RaceParameters — входные данные гонки
type RaceParameters struct {
	Distance float64 `json:"distancia"`            // км
	SpeedA   float64 `json:"velocidadeDesafiante"` // км/ч
	SpeedB   float64 `json:"velocidadeDK"`         // км/ч
	BonusA   float64 `json:"bonusDriftDesafiante"`
	BonusB   float64 `json:"bonusDriftDK"`
}

// RaceOutcome — результат, считается заново на каждый вызов
type RaceOutcome struct {
	Params RaceParameters `json:"params"`

	BaseTimeA  float64 `json:"baseTimeA"` // минуты
	BaseTimeB  float64 `json:"baseTimeB"`
	FinalTimeA float64 `json:"tempoDesafiante"`
	FinalTimeB float64 `json:"tempoDK"`

	Winner         Competitor `json:"-"`
	WinningTime    float64    `json:"tempoVencedor"`
	MaxSpeed       float64    `json:"velocidadeMaxima"`
	TimeDifference float64    `json:"diferenca"`
}

// Names — отображаемые имена участников
type Names struct {
	A string
	B string
}

func (n Names) Of(c Competitor) string {
	if c == CompetitorA {
		return n.A
	}
	return n.B
}

// Report — результат работы Processor.Run
type Report struct {
	RunID   string      `json:"runId"`
	Outcome RaceOutcome `json:"outcome"`
	Winner  string      `json:"vencedor"`
	Details []string    `json:"detalhes"`
	Summary string      `json:"resumo"`
}

// Config — финальная структура с готовыми типами
type Config struct {
	Precision  int
	Delay      time.Duration
	ResetDelay time.Duration
	LogLevel   string
	LogFile    string
	Names      Names
}

func DefaultConfig() Config {
	return Config{
		Precision:  DefaultPrecision,
		Delay:      DefaultDelay,
		ResetDelay: DefaultResetDelay,
		LogLevel:   "info",
		Names:      Names{A: NameA, B: NameB},
	}
}
