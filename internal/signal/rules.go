package signal

import (
	"github.com/lumee/lumee-platform/internal/weather"
)

// rule is one (predicate, signal template) pair of the cascade
type rule struct {
	name     string
	matches  func(r *weather.Reading) bool
	template Signal
}

// tier is one ordered group of mutually exclusive rules
type tier struct {
	name  string
	rules []rule
}

// cascade is the full classification decision table, evaluated strictly
// top to bottom. The first matching rule within the first matching tier
// wins and all later tiers are skipped. Ordering encodes the safety
// priority: life-threatening heat/cold/toxicity outranks chronic air
// quality, which outranks transient weather, which outranks comfort
// advisories. Reordering two rules changes observable behavior.
//
// Thresholds are strict (>) except the two emergency bounds (>= 35,
// <= -15) and the temperature bands (>=).
var cascade = []tier{
	{
		name: "critical",
		rules: []rule{
			{
				name:    "heat_emergency",
				matches: func(r *weather.Reading) bool { return r.FeelsLike >= 35 },
				template: Signal{
					Priority:   1,
					Color:      RGB{R: 255, G: 0, B: 0},
					Effect:     EffectFastBlink,
					DurationMs: 500,
					SoundID:    1,
					Category:   CategoryHeatEmergency,
					Message:    "폭염 경보: 외출을 자제하세요",
				},
			},
			{
				name:    "cold_emergency",
				matches: func(r *weather.Reading) bool { return r.FeelsLike <= -15 },
				template: Signal{
					Priority:   1,
					Color:      RGB{R: 0, G: 100, B: 255},
					Effect:     EffectFastBlink,
					DurationMs: 500,
					SoundID:    2,
					Category:   CategoryColdEmergency,
					Message:    "한파 경보: 체온 유지에 주의하세요",
				},
			},
			{
				name:    "pm25_hazardous",
				matches: func(r *weather.Reading) bool { return r.PM25 > 75 },
				template: Signal{
					Priority:   1,
					Color:      RGB{R: 148, G: 0, B: 211},
					Effect:     EffectSlowBlink,
					DurationMs: 1000,
					SoundID:    3,
					Category:   CategoryParticulate,
					Message:    "초미세먼지 매우나쁨: 외출 시 KF94 마스크 필수",
				},
			},
		},
	},
	{
		name: "air_quality",
		rules: []rule{
			{
				name:    "pm10_very_bad",
				matches: func(r *weather.Reading) bool { return r.PM10 > 150 },
				template: Signal{
					Priority:   2,
					Color:      RGB{R: 139, G: 0, B: 0},
					Effect:     EffectSlowBlink,
					DurationMs: 2000,
					Category:   CategoryParticulate,
					Message:    "미세먼지 매우나쁨: 실외활동 자제",
				},
			},
			{
				name:    "pm10_bad",
				matches: func(r *weather.Reading) bool { return r.PM10 > 80 },
				template: Signal{
					Priority: 2,
					Color:    RGB{R: 255, G: 140, B: 0},
					Effect:   EffectSolid,
					Category: CategoryParticulate,
					Message:  "미세먼지 나쁨: 마스크 착용 권장",
				},
			},
			{
				name:    "pm10_moderate",
				matches: func(r *weather.Reading) bool { return r.PM10 > 50 },
				template: Signal{
					Priority: 2,
					Color:    RGB{R: 255, G: 215, B: 0},
					Effect:   EffectSolid,
					Category: CategoryParticulate,
					Message:  "미세먼지 보통: 민감군 주의",
				},
			},
			{
				name:    "pm25_bad",
				matches: func(r *weather.Reading) bool { return r.PM25 > 35 },
				template: Signal{
					Priority: 2,
					Color:    RGB{R: 255, G: 165, B: 0},
					Effect:   EffectSolid,
					Category: CategoryParticulate,
					Message:  "초미세먼지 나쁨: 호흡기 민감자 주의",
				},
			},
			{
				name:    "ozone_high",
				matches: func(r *weather.Reading) bool { return r.Ozone > 0.12 },
				template: Signal{
					Priority:   2,
					Color:      RGB{R: 173, G: 255, B: 47},
					Effect:     EffectSlowBlink,
					DurationMs: 2000,
					Category:   CategoryOzone,
					Message:    "오존 농도 높음: 실외활동 자제",
				},
			},
		},
	},
	{
		name: "weather",
		rules: []rule{
			{
				name: "thunderstorm",
				matches: func(r *weather.Reading) bool {
					return r.Condition == weather.ConditionThunderstorm
				},
				template: Signal{
					Priority: 3,
					Color:    RGB{R: 255, G: 255, B: 0},
					Effect:   EffectLightning,
					SoundID:  4,
					Category: CategoryStorm,
					Message:  "천둥번개: 실내 대피 권장",
				},
			},
			{
				name:    "downpour",
				matches: func(r *weather.Reading) bool { return r.PrecipitationRate > 30 },
				template: Signal{
					Priority:   3,
					Color:      RGB{R: 0, G: 0, B: 139},
					Effect:     EffectFastBlink,
					DurationMs: 500,
					SoundID:    5,
					Category:   CategoryRain,
					Message:    "폭우: 이동 자제",
				},
			},
			{
				name:    "heavy_rain",
				matches: func(r *weather.Reading) bool { return r.PrecipitationRate > 10 },
				template: Signal{
					Priority: 3,
					Color:    RGB{R: 30, G: 144, B: 255},
					Effect:   EffectRain,
					Category: CategoryRain,
					Message:  "강한 비: 우산 필수",
				},
			},
			{
				name:    "moderate_rain",
				matches: func(r *weather.Reading) bool { return r.PrecipitationRate > 2 },
				template: Signal{
					Priority:   3,
					Color:      RGB{R: 100, G: 149, B: 237},
					Effect:     EffectSlowBlink,
					DurationMs: 2000,
					Category:   CategoryRain,
					Message:    "보통 비: 우산 권장",
				},
			},
			{
				name:    "light_rain",
				matches: func(r *weather.Reading) bool { return r.PrecipitationRate > 0 },
				template: Signal{
					Priority:   3,
					Color:      RGB{R: 135, G: 206, B: 250},
					Effect:     EffectSlowBlink,
					DurationMs: 3000,
					Category:   CategoryRain,
					Message:    "약한 비: 접이식 우산 휴대",
				},
			},
			{
				name: "snow",
				matches: func(r *weather.Reading) bool {
					return r.Condition == weather.ConditionSnow
				},
				template: Signal{
					Priority: 3,
					Color:    RGB{R: 255, G: 250, B: 250},
					Effect:   EffectSparkle,
					Category: CategorySnow,
					Message:  "눈: 미끄럼 주의",
				},
			},
			{
				name: "fog",
				matches: func(r *weather.Reading) bool {
					return r.Condition == weather.ConditionMist || r.Condition == weather.ConditionFog
				},
				template: Signal{
					Priority:   3,
					Color:      RGB{R: 192, G: 192, B: 192},
					Effect:     EffectBreathe,
					DurationMs: 2000,
					Category:   CategoryFog,
					Message:    "안개: 운전 주의",
				},
			},
			{
				name:    "overcast",
				matches: func(r *weather.Reading) bool { return r.CloudCoverPercent > 80 },
				template: Signal{
					Priority: 3,
					Color:    RGB{R: 169, G: 169, B: 169},
					Effect:   EffectSolid,
					Category: CategoryClouds,
					Message:  "흐림",
				},
			},
			{
				name:    "partly_cloudy",
				matches: func(r *weather.Reading) bool { return r.CloudCoverPercent > 20 },
				template: Signal{
					Priority: 3,
					Color:    RGB{R: 176, G: 224, B: 230},
					Effect:   EffectSolid,
					Category: CategoryClouds,
					Message:  "구름 조금",
				},
			},
		},
	},
	{
		name: "special",
		rules: []rule{
			{
				name:    "uv_very_high",
				matches: func(r *weather.Reading) bool { return r.UVIndex > 8 },
				template: Signal{
					Priority:   4,
					Color:      RGB{R: 186, G: 85, B: 211},
					Effect:     EffectPulse,
					DurationMs: 2000,
					Category:   CategoryUV,
					Message:    "자외선 매우 높음: 자외선 차단제 필수",
				},
			},
			{
				name:    "pollen_high",
				matches: func(r *weather.Reading) bool { return r.PollenIndex > 9 },
				template: Signal{
					Priority:   4,
					Color:      RGB{R: 255, G: 192, B: 203},
					Effect:     EffectBreathe,
					DurationMs: 2000,
					Category:   CategoryPollen,
					Message:    "꽃가루 많음: 알레르기 약 복용 권장",
				},
			},
			{
				name:    "humid",
				matches: func(r *weather.Reading) bool { return r.HumidityPercent > 80 },
				template: Signal{
					Priority: 4,
					Color:    RGB{R: 64, G: 224, B: 208},
					Effect:   EffectWave,
					Category: CategoryHumidity,
					Message:  "습도 매우 높음: 불쾌지수 높음",
				},
			},
			{
				name:    "dry",
				matches: func(r *weather.Reading) bool { return r.HumidityPercent < 30 },
				template: Signal{
					Priority: 4,
					Color:    RGB{R: 210, G: 180, B: 140},
					Effect:   EffectSolid,
					Category: CategoryDry,
					Message:  "습도 매우 낮음: 보습 필요",
				},
			},
		},
	},
	{
		name: "temperature",
		rules: []rule{
			{
				name:    "very_hot",
				matches: func(r *weather.Reading) bool { return r.Temperature >= 30 },
				template: Signal{
					Priority: 5,
					Color:    RGB{R: 255, G: 69, B: 0},
					Effect:   EffectSolid,
					Category: CategoryHot,
					Message:  "매우 더움",
				},
			},
			{
				name:    "hot",
				matches: func(r *weather.Reading) bool { return r.Temperature >= 25 },
				template: Signal{
					Priority: 5,
					Color:    RGB{R: 255, G: 140, B: 0},
					Effect:   EffectSolid,
					Category: CategoryWarm,
					Message:  "더움",
				},
			},
			{
				name:    "pleasant",
				matches: func(r *weather.Reading) bool { return r.Temperature >= 18 },
				template: Signal{
					Priority: 5,
					Color:    RGB{R: 50, G: 205, B: 50},
					Effect:   EffectSolid,
					Category: CategoryPleasant,
					Message:  "쾌적",
				},
			},
			{
				name:    "cool",
				matches: func(r *weather.Reading) bool { return r.Temperature >= 10 },
				template: Signal{
					Priority: 5,
					Color:    RGB{R: 144, G: 238, B: 144},
					Effect:   EffectSolid,
					Category: CategoryCool,
					Message:  "선선",
				},
			},
			{
				name:    "cold",
				matches: func(r *weather.Reading) bool { return r.Temperature >= 0 },
				template: Signal{
					Priority: 5,
					Color:    RGB{R: 70, G: 130, B: 180},
					Effect:   EffectSolid,
					Category: CategoryCold,
					Message:  "추움",
				},
			},
			{
				name:    "very_cold",
				matches: func(r *weather.Reading) bool { return r.Temperature < 0 },
				template: Signal{
					Priority: 5,
					Color:    RGB{R: 0, G: 191, B: 255},
					Effect:   EffectSolid,
					Category: CategoryFreezing,
					Message:  "매우 추움",
				},
			},
		},
	},
}

// defaultSignal is the terminal "perfect weather" row, reachable only when
// the temperature bands fail to match (non-finite temperature)
var defaultSignal = Signal{
	Priority:   5,
	Color:      RGB{R: 135, G: 206, B: 235},
	Effect:     EffectGradient,
	DurationMs: 5000,
	Category:   CategoryClear,
	Message:    "완벽한 날씨: 외출하기 좋습니다",
}
