package prediction

import (
	"fmt"
)

// DerivedFeatures are the engineered features of the mood task. The +1 in
// the denominators keeps the ratios finite when screen time or sleep is zero.
type DerivedFeatures struct {
	ScreenSleepRatio float64
	StressXSleep     float64
	ActivityBalance  float64
}

// Derive computes the mood task's engineered features.
func Derive(raw RawUserMetrics) DerivedFeatures {
	return DerivedFeatures{
		ScreenSleepRatio: raw.DailyScreenTimeHours / (raw.SleepDurationHours + 1),
		StressXSleep:     raw.StressLevel * raw.SleepQuality,
		ActivityBalance:  raw.PhysicalActivityHoursPerWeek / (raw.DailyScreenTimeHours + 1),
	}
}

// FeatureVector selects the features named in names, in that order, from the
// raw metrics and, for the mood task, the derived features.
func FeatureVector(task Task, raw RawUserMetrics, names []string) ([]float64, error) {
	var derived *DerivedFeatures
	if task == TaskMood {
		d := Derive(raw)
		derived = &d
	}

	x := make([]float64, len(names))
	for i, name := range names {
		v, ok := rawFeature(raw, name)
		if !ok && derived != nil {
			v, ok = derived.feature(name)
		}
		if !ok {
			return nil, &ConfigurationError{Task: task, Err: fmt.Errorf("%w %q", ErrUnknownFeature, name)}
		}
		x[i] = v
	}
	return x, nil
}

func rawFeature(raw RawUserMetrics, name string) (float64, bool) {
	switch name {
	case FeatureDailyScreenTime:
		return raw.DailyScreenTimeHours, true
	case FeatureSleepDuration:
		return raw.SleepDurationHours, true
	case FeatureStressLevel:
		return raw.StressLevel, true
	case FeatureSleepQuality:
		return raw.SleepQuality, true
	case FeaturePhysicalActivity:
		return raw.PhysicalActivityHoursPerWeek, true
	case FeatureSocialMediaHours:
		return raw.SocialMediaHours, true
	case FeatureGamingHours:
		return raw.GamingHours, true
	case FeatureEntertainmentHours:
		return raw.EntertainmentHours, true
	case FeatureWorkRelatedHours:
		return raw.WorkRelatedHours, true
	}
	return 0, false
}

func (d DerivedFeatures) feature(name string) (float64, bool) {
	switch name {
	case FeatureScreenSleepRatio:
		return d.ScreenSleepRatio, true
	case FeatureStressXSleep:
		return d.StressXSleep, true
	case FeatureActivityBalance:
		return d.ActivityBalance, true
	}
	return 0, false
}
