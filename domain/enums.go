package domain

// CurrentEmploymentStatus classifies a customer's employment situation.
type CurrentEmploymentStatus int

const (
	EmploymentStatusEmployed                             CurrentEmploymentStatus = 1
	EmploymentStatusEmployedAtRiskOfRedundancy           CurrentEmploymentStatus = 2
	EmploymentStatusSelfEmployed                         CurrentEmploymentStatus = 3
	EmploymentStatusUnemployed                           CurrentEmploymentStatus = 4
	EmploymentStatusRetired                              CurrentEmploymentStatus = 5
	EmploymentStatusEmployedAndVoluntaryWork             CurrentEmploymentStatus = 6
	EmploymentStatusRetiredAndVoluntaryWork              CurrentEmploymentStatus = 7
	EmploymentStatusEconomicallyInactive                 CurrentEmploymentStatus = 8
	EmploymentStatusEconomicallyInactiveAndVoluntaryWork CurrentEmploymentStatus = 9
	EmploymentStatusUnemployedAndVoluntaryWork           CurrentEmploymentStatus = 10
	EmploymentStatusApprenticeship                       CurrentEmploymentStatus = 11
	EmploymentStatusNotKnown                             CurrentEmploymentStatus = 99
)

func (s CurrentEmploymentStatus) IsDefined() bool {
	switch s {
	case EmploymentStatusEmployed,
		EmploymentStatusEmployedAtRiskOfRedundancy,
		EmploymentStatusSelfEmployed,
		EmploymentStatusUnemployed,
		EmploymentStatusRetired,
		EmploymentStatusEmployedAndVoluntaryWork,
		EmploymentStatusRetiredAndVoluntaryWork,
		EmploymentStatusEconomicallyInactive,
		EmploymentStatusEconomicallyInactiveAndVoluntaryWork,
		EmploymentStatusUnemployedAndVoluntaryWork,
		EmploymentStatusApprenticeship,
		EmploymentStatusNotKnown:
		return true
	}
	return false
}

// RequiresEmploymentDetails reports whether hours worked and the employment
// start date must be recorded for this status.
func (s CurrentEmploymentStatus) RequiresEmploymentDetails() bool {
	switch s {
	case EmploymentStatusApprenticeship,
		EmploymentStatusEmployed,
		EmploymentStatusEmployedAndVoluntaryWork,
		EmploymentStatusRetiredAndVoluntaryWork,
		EmploymentStatusSelfEmployed:
		return true
	}
	return false
}

// EconomicShockStatus flags whether a change relates to a wider economic disruption.
type EconomicShockStatus int

const (
	EconomicShockNotApplicable                  EconomicShockStatus = 1
	EconomicShockGovernmentDefinedEconomicShock EconomicShockStatus = 2
	EconomicShockLocalEconomicShock             EconomicShockStatus = 3
)

func (s EconomicShockStatus) IsDefined() bool {
	switch s {
	case EconomicShockNotApplicable, EconomicShockGovernmentDefinedEconomicShock, EconomicShockLocalEconomicShock:
		return true
	}
	return false
}

type EmploymentHours int

const (
	EmploymentHoursLessThanSixteen EmploymentHours = 1
	EmploymentHoursSixteenOrMore   EmploymentHours = 2
	EmploymentHoursNotKnown        EmploymentHours = 99
)

func (h EmploymentHours) IsDefined() bool {
	switch h {
	case EmploymentHoursLessThanSixteen, EmploymentHoursSixteenOrMore, EmploymentHoursNotKnown:
		return true
	}
	return false
}

type LengthOfUnemployment int

const (
	UnemployedLessThanThreeMonths          LengthOfUnemployment = 1
	UnemployedThreeToFiveMonths            LengthOfUnemployment = 2
	UnemployedSixToElevenMonths            LengthOfUnemployment = 3
	UnemployedTwelveToTwentyThreeMonths    LengthOfUnemployment = 4
	UnemployedTwentyFourToThirtyFiveMonths LengthOfUnemployment = 5
	UnemployedThirtySixMonthsOrMore        LengthOfUnemployment = 6
	UnemployedNotKnown                     LengthOfUnemployment = 99
)

func (l LengthOfUnemployment) IsDefined() bool {
	switch l {
	case UnemployedLessThanThreeMonths,
		UnemployedThreeToFiveMonths,
		UnemployedSixToElevenMonths,
		UnemployedTwelveToTwentyThreeMonths,
		UnemployedTwentyFourToThirtyFiveMonths,
		UnemployedThirtySixMonthsOrMore,
		UnemployedNotKnown:
		return true
	}
	return false
}
