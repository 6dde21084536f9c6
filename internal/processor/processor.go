package processor

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/segmentio/ksuid"

	"github.com/RozmiDan/driftrace/internal/entity"
)

// Evaluate считает время обоих участников и выбирает победителя.
// Чистая функция: без валидации, нулевая скорость даёт +Inf, NaN протекает в min/max.
func Evaluate(p entity.RaceParameters) entity.RaceOutcome {
	baseA := (p.Distance / p.SpeedA) * 60
	baseB := (p.Distance / p.SpeedB) * 60
	finalA := baseA - p.BonusA
	finalB := baseB - p.BonusB

	// строго меньше: при равенстве побеждает B
	winner := entity.CompetitorB
	if finalA < finalB {
		winner = entity.CompetitorA
	}

	return entity.RaceOutcome{
		Params:         p,
		BaseTimeA:      baseA,
		BaseTimeB:      baseB,
		FinalTimeA:     finalA,
		FinalTimeB:     finalB,
		Winner:         winner,
		WinningTime:    math.Min(finalA, finalB),
		MaxSpeed:       math.Max(p.SpeedA, p.SpeedB),
		TimeDifference: math.Abs(finalA - finalB),
	}
}

type Processor struct {
	cfg entity.Config
	log zerolog.Logger
}

func NewProcessor(cfg entity.Config, log zerolog.Logger) *Processor {
	if cfg.Precision == 0 {
		cfg.Precision = entity.DefaultPrecision
	}
	if cfg.Names.A == "" {
		cfg.Names.A = entity.NameA
	}
	if cfg.Names.B == "" {
		cfg.Names.B = entity.NameB
	}
	return &Processor{cfg: cfg, log: log}
}

// Run считает гонку и собирает отчёт для вывода
func (p *Processor) Run(params entity.RaceParameters) entity.Report {
	out := Evaluate(params)
	rep := entity.Report{
		RunID:   ksuid.New().String(),
		Outcome: out,
		Winner:  p.cfg.Names.Of(out.Winner),
		Details: Breakdown(out, p.cfg.Precision),
		Summary: Summary(out, p.cfg.Names, p.cfg.Precision),
	}

	p.log.Debug().
		Str("run_id", rep.RunID).
		Str("winner", out.Winner.String()).
		Float64("final_a", out.FinalTimeA).
		Float64("final_b", out.FinalTimeB).
		Float64("diff", out.TimeDifference).
		Msg("race evaluated")

	return rep
}

// Breakdown — пошаговый вывод расчёта в стиле терминала
func Breakdown(o entity.RaceOutcome, precision int) []string {
	p := o.Params
	return []string{
		"> Iniciando cálculo da corrida...",
		fmt.Sprintf("> Distância do percurso: %s km", number(p.Distance)),
		"",
		"> MAZDA RX-7 (Desafiante):",
		fmt.Sprintf("  - Velocidade média: %s km/h", number(p.SpeedA)),
		fmt.Sprintf("  - Bônus drift: %ss", number(p.BonusA)),
		fmt.Sprintf("  - Tempo base: %s min", Fixed(o.BaseTimeA, precision)),
		fmt.Sprintf("  - Tempo final: %s min", Fixed(o.FinalTimeA, precision)),
		"",
		"> NISSAN 350Z (DK):",
		fmt.Sprintf("  - Velocidade média: %s km/h", number(p.SpeedB)),
		fmt.Sprintf("  - Bônus drift: %ss", number(p.BonusB)),
		fmt.Sprintf("  - Tempo base: %s min", Fixed(o.BaseTimeB, precision)),
		fmt.Sprintf("  - Tempo final: %s min", Fixed(o.FinalTimeB, precision)),
		"",
		"> Comparando resultados...",
		fmt.Sprintf("> Diferença: %s min", Fixed(o.TimeDifference, precision)),
		"",
	}
}

// Summary — итоговая строка с победителем
func Summary(o entity.RaceOutcome, names entity.Names, precision int) string {
	return fmt.Sprintf("🏆 VENCEDOR: %s | ⏱️ Tempo: %s min | 🚀 Velocidade Máxima: %s km/h",
		names.Of(o.Winner),
		Fixed(o.WinningTime, precision),
		number(o.MaxSpeed),
	)
}

// Fixed повторяет Number#toFixed: точная половина округляется от нуля,
// от 1e21 и выше — обычная запись числа
func Fixed(v float64, precision int) string {
	if s, ok := special(v); ok {
		return s
	}
	abs := math.Abs(v)
	if abs >= 1e21 {
		return number(v)
	}
	sign := ""
	if v < 0 {
		sign = "-"
	}

	// все знаки double после запятой конечны, 1074 хватает для точной записи
	exact := strconv.FormatFloat(abs, 'f', 1074, 64)
	dot := strings.IndexByte(exact, '.')
	tail := exact[dot+1+precision:]
	if tail[0] == '5' && strings.TrimRight(tail[1:], "0") == "" {
		return sign + roundUp(exact[:dot+1+precision])
	}
	return sign + strconv.FormatFloat(abs, 'f', precision, 64)
}

// roundUp прибавляет единицу к последней цифре десятичной записи
func roundUp(s string) string {
	b := []byte(s)
	for i := len(b) - 1; i >= 0; i-- {
		if b[i] == '.' {
			continue
		}
		if b[i] < '9' {
			b[i]++
			return strings.TrimSuffix(string(b), ".")
		}
		b[i] = '0'
	}
	return strings.TrimSuffix("1"+string(b), ".")
}

// number повторяет Number#toString: экспонента для |v| >= 1e21 и |v| < 1e-6
func number(v float64) string {
	if s, ok := special(v); ok {
		return s
	}
	abs := math.Abs(v)
	if abs == 0 {
		return "0"
	}
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(v, 'e', -1, 64)
		mant, exp, _ := strings.Cut(s, "e")
		e, err := strconv.Atoi(exp)
		if err != nil {
			return s
		}
		if e < 0 {
			return mant + "e-" + strconv.Itoa(-e)
		}
		return mant + "e+" + strconv.Itoa(e)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func special(v float64) (string, bool) {
	switch {
	case math.IsNaN(v):
		return "NaN", true
	case math.IsInf(v, 1):
		return "Infinity", true
	case math.IsInf(v, -1):
		return "-Infinity", true
	}
	return "", false
}
