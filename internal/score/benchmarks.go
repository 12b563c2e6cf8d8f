package score

// benchmarkFn maps a variable's raw value to a 0-100 risk contribution.
type benchmarkFn func(value float64) float64

// benchmarks is the fixed rule table. Variables without an entry carry no
// benchmark contribution; their category falls back to evaluation-derived
// risk alone when nothing else matches.
var benchmarks = map[string]benchmarkFn{
	"altman_z_score": func(v float64) float64 {
		switch {
		case v > 2.99:
			return 15
		case v > 1.81:
			return 50
		default:
			return 85
		}
	},
	"debt_to_equity": func(v float64) float64 {
		switch {
		case v < 0.5:
			return 15
		case v < 1.0:
			return 30
		case v < 2.0:
			return 55
		case v < 3.0:
			return 75
		default:
			return 90
		}
	},
	"current_ratio": func(v float64) float64 {
		switch {
		case v >= 2.0:
			return 15
		case v >= 1.5:
			return 30
		case v >= 1.0:
			return 55
		case v >= 0.5:
			return 75
		default:
			return 90
		}
	},
	"quick_ratio": func(v float64) float64 {
		switch {
		case v >= 1.5:
			return 15
		case v >= 1.0:
			return 30
		case v >= 0.7:
			return 55
		case v >= 0.4:
			return 75
		default:
			return 90
		}
	},
	"return_on_equity": func(v float64) float64 {
		switch {
		case v >= 0.20:
			return 15
		case v >= 0.10:
			return 30
		case v >= 0.05:
			return 55
		case v >= 0:
			return 75
		default:
			return 90
		}
	},
	"return_on_assets": func(v float64) float64 {
		switch {
		case v >= 0.10:
			return 15
		case v >= 0.05:
			return 30
		case v >= 0.02:
			return 55
		case v >= 0:
			return 75
		default:
			return 90
		}
	},
	"net_margin": func(v float64) float64 {
		switch {
		case v >= 0.15:
			return 15
		case v >= 0.08:
			return 30
		case v >= 0.02:
			return 55
		case v >= 0:
			return 75
		default:
			return 90
		}
	},
	"annualized_volatility": func(v float64) float64 {
		switch {
		case v < 0.20:
			return 15
		case v < 0.35:
			return 35
		case v < 0.50:
			return 55
		case v < 0.75:
			return 75
		default:
			return 90
		}
	},
	"price_change_percent": func(v float64) float64 {
		switch {
		case v >= 5:
			return 15
		case v >= 0:
			return 30
		case v >= -5:
			return 50
		case v >= -15:
			return 70
		default:
			return 85
		}
	},
	"beta": func(v float64) float64 {
		switch {
		case v < 0.8:
			return 20
		case v < 1.2:
			return 35
		case v < 1.6:
			return 60
		default:
			return 80
		}
	},
	"market_cap": func(v float64) float64 {
		switch {
		case v >= 1e10:
			return 15
		case v >= 1e9:
			return 30
		case v >= 1e8:
			return 55
		default:
			return 75
		}
	},
	"employee_count": func(v float64) float64 {
		switch {
		case v >= 10000:
			return 15
		case v >= 1000:
			return 30
		case v >= 100:
			return 55
		default:
			return 75
		}
	},
	"facility_state_spread": func(v float64) float64 {
		switch {
		case v >= 10:
			return 15
		case v >= 5:
			return 30
		case v >= 2:
			return 50
		default:
			return 70
		}
	},
	"facility_concentration_ratio": func(v float64) float64 {
		switch {
		case v < 0.30:
			return 20
		case v < 0.50:
			return 40
		case v < 0.70:
			return 60
		case v < 0.85:
			return 75
		default:
			return 90
		}
	},
	"environmental_violation_count": func(v float64) float64 {
		switch {
		case v == 0:
			return 10
		case v <= 2:
			return 35
		case v <= 5:
			return 60
		case v <= 10:
			return 75
		default:
			return 90
		}
	},
	"environmental_penalty_total": func(v float64) float64 {
		switch {
		case v == 0:
			return 10
		case v < 1e5:
			return 40
		case v < 1e6:
			return 65
		default:
			return 90
		}
	},
	"safety_violation_total": func(v float64) float64 {
		switch {
		case v == 0:
			return 10
		case v <= 5:
			return 35
		case v <= 15:
			return 60
		default:
			return 85
		}
	},
	"safety_penalty_total": func(v float64) float64 {
		switch {
		case v == 0:
			return 10
		case v < 5e4:
			return 40
		case v < 5e5:
			return 65
		default:
			return 90
		}
	},
	"macro_unrate": func(v float64) float64 {
		switch {
		case v < 4.0:
			return 20
		case v < 5.5:
			return 40
		case v < 7.0:
			return 65
		default:
			return 85
		}
	},
	"macro_fedfunds": func(v float64) float64 {
		switch {
		case v < 2.0:
			return 20
		case v < 4.0:
			return 40
		case v < 6.0:
			return 65
		default:
			return 85
		}
	},
	"macro_t10y2y": func(v float64) float64 {
		switch {
		case v >= 1.0:
			return 20
		case v >= 0:
			return 40
		case v >= -0.5:
			return 65
		default:
			return 85
		}
	},
}
