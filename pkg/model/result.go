package model

// Disclaimer is attached to every provider-generated result. The assistant
// never makes medical decisions; output is provider prose only.
const Disclaimer = "This information is AI-generated and for informational purposes only. " +
	"Always consult a qualified healthcare professional before making any decisions about medication."

// MedicationInfo is the result of a medication lookup. Each field is opaque
// provider output and may be independently replaced by its translation.
type MedicationInfo struct {
	Uses             string `json:"uses"`
	SideEffects      string `json:"sideEffects"`
	DosageGuidelines string `json:"dosageGuidelines"`
}

// InteractionReport is the result of a multi-drug interaction check.
type InteractionReport struct {
	Report string `json:"report"`
}

// DocumentAnalysis is the result of analyzing an uploaded document image.
type DocumentAnalysis struct {
	Analysis string `json:"analysis"`
}

// SpeechPayload carries synthesized narration as a base64 WAV data URI.
type SpeechPayload struct {
	AudioDataURI string `json:"audioDataUri"`
}
