package processor

import (
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RozmiDan/driftrace/internal/entity"
)

func TestEvaluateChallengerWins(t *testing.T) {
	out := Evaluate(entity.RaceParameters{Distance: 5, SpeedA: 100, SpeedB: 95, BonusA: 0.2})

	assert.InDelta(t, 3.0, out.BaseTimeA, 1e-12)
	assert.InDelta(t, 2.8, out.FinalTimeA, 1e-12)
	assert.InDelta(t, 3.1579, out.BaseTimeB, 1e-4)
	assert.InDelta(t, 3.1579, out.FinalTimeB, 1e-4)
	assert.Equal(t, entity.CompetitorA, out.Winner)
	assert.InDelta(t, 2.8, out.WinningTime, 1e-12)
	assert.Equal(t, 100.0, out.MaxSpeed)
	assert.InDelta(t, 0.3579, out.TimeDifference, 1e-4)
}

func TestEvaluateTieGoesToB(t *testing.T) {
	out := Evaluate(entity.RaceParameters{Distance: 10, SpeedA: 60, SpeedB: 60})

	assert.Equal(t, 10.0, out.FinalTimeA)
	assert.Equal(t, 10.0, out.FinalTimeB)
	assert.Equal(t, entity.CompetitorB, out.Winner)
	assert.Equal(t, 0.0, out.TimeDifference)
}

func TestEvaluateZeroSpeed(t *testing.T) {
	out := Evaluate(entity.RaceParameters{Distance: 5, SpeedA: 0, SpeedB: 80, BonusA: 100})

	assert.True(t, math.IsInf(out.FinalTimeA, 1))
	assert.Equal(t, entity.CompetitorB, out.Winner)
	assert.Equal(t, out.FinalTimeB, out.WinningTime)
	assert.True(t, math.IsInf(out.TimeDifference, 1))
}

func TestEvaluateProperties(t *testing.T) {
	cases := []entity.RaceParameters{
		{Distance: 5, SpeedA: 100, SpeedB: 95, BonusA: 0.2},
		{Distance: 1.7, SpeedA: 33.3, SpeedB: 140, BonusB: 2.5},
		{Distance: 42.195, SpeedA: 20, SpeedB: 21, BonusA: 3, BonusB: 1},
		{Distance: 0.1, SpeedA: 250, SpeedB: 250, BonusA: 0.01, BonusB: 0.01},
		{Distance: 12, SpeedA: 90, SpeedB: 120, BonusA: 5},
	}
	for _, p := range cases {
		out := Evaluate(p)

		assert.Equal(t, (p.Distance/p.SpeedA)*60-p.BonusA, out.FinalTimeA)
		assert.Equal(t, (p.Distance/p.SpeedB)*60-p.BonusB, out.FinalTimeB)
		if out.FinalTimeA < out.FinalTimeB {
			assert.Equal(t, entity.CompetitorA, out.Winner)
		} else {
			assert.Equal(t, entity.CompetitorB, out.Winner)
		}
		assert.Equal(t, math.Min(out.FinalTimeA, out.FinalTimeB), out.WinningTime)
		assert.Equal(t, math.Max(p.SpeedA, p.SpeedB), out.MaxSpeed)
		assert.GreaterOrEqual(t, out.TimeDifference, 0.0)
		assert.Equal(t, math.Abs(out.FinalTimeA-out.FinalTimeB), out.TimeDifference)

		// без скрытого состояния
		assert.Equal(t, out, Evaluate(p))
	}
}

func TestEvaluateNaNPropagates(t *testing.T) {
	cases := []entity.RaceParameters{
		{Distance: 0, SpeedA: 0, SpeedB: 95},
		{Distance: 0, SpeedA: 95, SpeedB: 0},
	}
	for _, p := range cases {
		out := Evaluate(p)

		assert.Equal(t, entity.CompetitorB, out.Winner)
		assert.True(t, math.IsNaN(out.WinningTime), "%+v", p)
		assert.True(t, math.IsNaN(out.TimeDifference), "%+v", p)
		assert.Equal(t, 95.0, out.MaxSpeed)
		assert.Contains(t, Summary(out, entity.Names{A: entity.NameA, B: entity.NameB}, 2), "Tempo: NaN min")
	}

	out := Evaluate(entity.RaceParameters{Distance: 5, SpeedA: math.NaN(), SpeedB: 95})
	assert.True(t, math.IsNaN(out.MaxSpeed))
}

func TestBreakdown(t *testing.T) {
	out := Evaluate(entity.RaceParameters{Distance: 5, SpeedA: 100, SpeedB: 95, BonusA: 0.2})

	lines := Breakdown(out, 2)
	require.Len(t, lines, 18)
	assert.Equal(t, "> Iniciando cálculo da corrida...", lines[0])
	assert.Equal(t, "> Distância do percurso: 5 km", lines[1])
	assert.Equal(t, "  - Velocidade média: 100 km/h", lines[4])
	assert.Equal(t, "  - Bônus drift: 0.2s", lines[5])
	assert.Equal(t, "  - Tempo base: 3.00 min", lines[6])
	assert.Equal(t, "  - Tempo final: 2.80 min", lines[7])
	assert.Equal(t, "  - Bônus drift: 0s", lines[11])
	assert.Equal(t, "  - Tempo base: 3.16 min", lines[12])
	assert.Equal(t, "  - Tempo final: 3.16 min", lines[13])
	assert.Equal(t, "> Diferença: 0.36 min", lines[16])
	assert.Equal(t, "", lines[17])

	lines = Breakdown(out, 3)
	assert.Equal(t, "  - Tempo base: 3.158 min", lines[12])
	assert.Equal(t, "> Diferença: 0.358 min", lines[16])
}

func TestSummary(t *testing.T) {
	names := entity.Names{A: entity.NameA, B: entity.NameB}

	out := Evaluate(entity.RaceParameters{Distance: 5, SpeedA: 100, SpeedB: 95, BonusA: 0.2})
	assert.Equal(t, "🏆 VENCEDOR: Desafiante (Mazda RX-7) | ⏱️ Tempo: 2.80 min | 🚀 Velocidade Máxima: 100 km/h", Summary(out, names, 2))

	out = Evaluate(entity.RaceParameters{Distance: 10, SpeedA: 60, SpeedB: 60})
	assert.Equal(t, "🏆 VENCEDOR: DK (Nissan 350Z) | ⏱️ Tempo: 10.000 min | 🚀 Velocidade Máxima: 60 km/h", Summary(out, names, 3))
}

func TestFixedSpecialValues(t *testing.T) {
	assert.Equal(t, "Infinity", Fixed(math.Inf(1), 2))
	assert.Equal(t, "-Infinity", Fixed(math.Inf(-1), 2))
	assert.Equal(t, "NaN", Fixed(math.NaN(), 3))
	assert.Equal(t, "1.50", Fixed(1.5, 2))
}

func TestFixedRoundsHalfAwayFromZero(t *testing.T) {
	cases := []struct {
		v    float64
		prec int
		want string
	}{
		{2.125, 2, "2.13"},
		{0.125, 2, "0.13"},
		{-2.125, 2, "-2.13"},
		{0.0625, 3, "0.063"},
		{0.9375, 3, "0.938"},
		{9.96875, 4, "9.9688"},
		{1.005, 2, "1.00"}, // в double это 1.00499...
		{99.5, 0, "100"},
		{0.5, 0, "1"},
		{2.5, 0, "3"},
		{9.5, 0, "10"},
		{math.Copysign(0, -1), 2, "0.00"},
		{-0.001, 2, "-0.00"},
		{1e21, 2, "1e+21"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Fixed(c.v, c.prec), "Fixed(%v, %d)", c.v, c.prec)
	}
}

func TestBreakdownTieRounding(t *testing.T) {
	out := Evaluate(entity.RaceParameters{Distance: 5, SpeedA: 100, SpeedB: 95, BonusA: 0.875})
	require.Equal(t, 2.125, out.FinalTimeA)

	lines := Breakdown(out, 2)
	assert.Equal(t, "  - Tempo final: 2.13 min", lines[7])
	assert.Contains(t, Summary(out, entity.Names{A: entity.NameA, B: entity.NameB}, 2), "Tempo: 2.13 min")
}

func TestNumberMatchesNumberToString(t *testing.T) {
	cases := map[float64]string{
		5:                     "5",
		0.2:                   "0.2",
		-3.5:                  "-3.5",
		math.Copysign(0, -1):  "0",
		1e21:                  "1e+21",
		1.5e22:                "1.5e+22",
		123456789012345680000: "123456789012345680000",
		0.000001:              "0.000001",
		0.0000001:             "1e-7",
		1.5e-7:                "1.5e-7",
	}
	for v, want := range cases {
		assert.Equal(t, want, number(v), "number(%v)", v)
	}
}

func TestProcessorRun(t *testing.T) {
	p := NewProcessor(entity.Config{Names: entity.Names{A: "Sean", B: "Takashi"}}, zerolog.Nop())

	rep := p.Run(entity.RaceParameters{Distance: 5, SpeedA: 100, SpeedB: 95, BonusA: 0.2})
	assert.NotEmpty(t, rep.RunID)
	assert.Equal(t, "Sean", rep.Winner)
	assert.Len(t, rep.Details, 18)
	assert.Contains(t, rep.Summary, "Sean")
	assert.Contains(t, rep.Summary, "2.80")

	other := p.Run(rep.Outcome.Params)
	assert.NotEqual(t, rep.RunID, other.RunID)
	assert.Equal(t, rep.Outcome, other.Outcome)
}
