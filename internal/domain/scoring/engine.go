package scoring

import (
	"math"
	"strings"

	"talentbridge/internal/domain/candidate"
	"talentbridge/internal/domain/job"
)

// Scoring policy. The weights and penalty slopes are a documented,
// test-covered default and can be retuned without touching the Match or
// Application contracts.
const (
	weightSkills     = 0.40
	weightExperience = 0.20
	weightEducation  = 0.15
	weightLocation   = 0.15
	weightSalary     = 0.10

	experiencePenaltyPerYear = 15.0
	educationPenaltyPerLevel = 30.0
)

// Score computes the compatibility of a candidate and a job as an
// integer in [0,100]. Pure and deterministic: identical inputs always
// produce the identical score.
func Score(c candidate.Candidate, j job.Job) int {
	total := weightSkills * skillScore(c.Skills, j.RequiredSkills)
	weight := weightSkills

	total += weightExperience * experienceScore(c.ExperienceYears, j.ExperienceMin, j.ExperienceMax)
	weight += weightExperience

	total += weightEducation * educationScore(c.EducationLevel, j.EducationLevel)
	weight += weightEducation

	total += weightLocation * locationScore(c.Location, j.Location, j.IsRemote)
	weight += weightLocation

	// When either side leaves its salary range unspecified the term is
	// excluded and its weight redistributes proportionally by dividing
	// through the remaining weight.
	desired, desiredOK := salarySpan(c.DesiredSalaryMin, c.DesiredSalaryMax)
	offered, offeredOK := salarySpan(j.SalaryMin, j.SalaryMax)
	if desiredOK && offeredOK {
		total += weightSalary * salaryScore(desired, offered)
		weight += weightSalary
	}

	s := int(math.Round(total / weight))
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}

func skillScore(have, required []string) float64 {
	req := normalizeSet(required)
	if len(req) == 0 {
		return 100
	}

	owned := normalizeSet(have)
	hit := 0
	for s := range req {
		if _, ok := owned[s]; ok {
			hit++
		}
	}
	return 100 * float64(hit) / float64(len(req))
}

func experienceScore(years, bandMin, bandMax int) float64 {
	if bandMax < bandMin {
		bandMax = bandMin
	}

	gap := 0
	switch {
	case years < bandMin:
		gap = bandMin - years
	case years > bandMax:
		gap = years - bandMax
	}

	s := 100 - experiencePenaltyPerYear*float64(gap)
	if s < 0 {
		return 0
	}
	return s
}

func educationScore(have, required candidate.EducationLevel) float64 {
	reqRank := required.Rank()
	if reqRank == 0 {
		return 100
	}
	haveRank := have.Rank()
	if haveRank >= reqRank {
		return 100
	}

	s := 100 - educationPenaltyPerLevel*float64(reqRank-haveRank)
	if s < 0 {
		return 0
	}
	return s
}

func locationScore(candidateCity, jobCity string, jobRemote bool) float64 {
	if jobRemote {
		return 100
	}
	cc := strings.TrimSpace(candidateCity)
	jc := strings.TrimSpace(jobCity)
	if cc != "" && strings.EqualFold(cc, jc) {
		return 100
	}
	return 0
}

type span struct {
	lo int
	hi int
}

func salarySpan(minV, maxV *int) (span, bool) {
	if minV == nil && maxV == nil {
		return span{}, false
	}
	lo := 0
	if minV != nil {
		lo = *minV
	}
	hi := math.MaxInt32
	if maxV != nil {
		hi = *maxV
	}
	if hi < lo {
		hi = lo
	}
	return span{lo: lo, hi: hi}, true
}

func salaryScore(desired, offered span) float64 {
	if desired.lo <= offered.hi && offered.lo <= desired.hi {
		return 100
	}
	return 0
}

func normalizeSet(items []string) map[string]struct{} {
	out := make(map[string]struct{}, len(items))
	for _, s := range items {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		out[s] = struct{}{}
	}
	return out
}
