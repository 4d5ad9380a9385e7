package status

// rule maps failures of the listed kinds, raised at one of the listed stages,
// to a code. A nil stages slice matches every stage.
type rule struct {
	stages []Stage
	kinds  []Kind
	code   Code
}

// Order matters: the first matching rule wins.
var rules = []rule{
	{stages: []Stage{StageParse}, kinds: []Kind{KindInvalidKeywordOrder}, code: CodeKeywordOrder},
	{stages: []Stage{StageParse}, kinds: []Kind{KindMissingKeyword}, code: CodeMissingKeyword},
	{stages: []Stage{StageParse}, kinds: []Kind{KindInvalidDateFormat}, code: CodeInvalidDate},
	{stages: []Stage{StageParse, StageValidate}, kinds: []Kind{KindInvalidAccountID}, code: CodeInvalidAccountID},
	{stages: []Stage{StageParse}, kinds: []Kind{KindMalformedInstruction}, code: CodeMalformed},
	{stages: []Stage{StageValidate}, kinds: []Kind{KindInvalidAmount, KindNegativeAmount, KindDecimalAmount, KindBalanceOverflow}, code: CodeInvalidAmount},
	{stages: []Stage{StageValidate}, kinds: []Kind{KindCurrencyMismatch}, code: CodeCurrencyMismatch},
	{stages: []Stage{StageValidate}, kinds: []Kind{KindUnsupportedCurrency}, code: CodeUnsupportedCurrency},
	{stages: []Stage{StageValidate}, kinds: []Kind{KindInsufficientFunds}, code: CodeInsufficientFunds},
	{stages: []Stage{StageValidate}, kinds: []Kind{KindSameAccount}, code: CodeSameAccount},
	{stages: []Stage{StageValidate}, kinds: []Kind{KindAccountNotFound}, code: CodeAccountNotFound},
}

// Classify maps a failure to its protocol status code. Anything no rule
// recognises, including a nil failure, is reported as SY03.
func Classify(f *Failure) Code {
	if f == nil {
		return CodeMalformed
	}
	for _, r := range rules {
		if r.matches(f) {
			return r.code
		}
	}
	return CodeMalformed
}

func (r rule) matches(f *Failure) bool {
	if r.stages != nil && !containsStage(r.stages, f.Stage) {
		return false
	}
	for _, k := range r.kinds {
		if k == f.Kind {
			return true
		}
	}
	return false
}

func containsStage(stages []Stage, s Stage) bool {
	for _, st := range stages {
		if st == s {
			return true
		}
	}
	return false
}
