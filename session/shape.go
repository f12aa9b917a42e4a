package session

import "github.com/glyphwatch/clnp/apierr"

// validateStandaloneShape checks the structural floor spec.md §4.6 requires
// before a standalone submission may consume its challenge: enough pointer
// samples, and both phase boundaries and canvas dimensions present.
func validateStandaloneShape(sub *StandaloneSubmission) *apierr.Error {
	if len(sub.Pointer) < standalonePointerFloor {
		return apierr.New(apierr.CodeInsufficientPointer, "pointer trace shorter than the required floor")
	}
	if sub.Phases == nil {
		return apierr.New(apierr.CodeMissingPhases, "phases are required")
	}
	if sub.Canvas == nil {
		return apierr.New(apierr.CodeMissingCanvas, "canvas dimensions are required")
	}
	return nil
}

// validateEmbedShape is the embed-mode counterpart: a lower pointer floor,
// and at least one tracked element.
func validateEmbedShape(sub *EmbedSubmission) *apierr.Error {
	if len(sub.Pointer) < embedPointerFloor {
		return apierr.New(apierr.CodeInsufficientPointer, "pointer trace shorter than the required floor")
	}
	if len(sub.Elements) == 0 {
		return apierr.New(apierr.CodeMissingElements, "tracked elements are required")
	}
	return nil
}
