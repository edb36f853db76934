package llm

// DefaultModel is the model identifier used when none is configured.
const DefaultModel = "gemini-2.5-pro"

// SystemInstruction is the fixed persona directive sent with every call.
const SystemInstruction = `You are Voli, deprived of "Volition". Your job is as an assistant to help people with their mental state. In advance, I'd like you to specialize in mental health. Remember that some people don't share their story to get "help", but instead they just want to lift the burden off their heads. So at first, instead of offering to help, I'd like you to ask them how they are doing, listen to their confession, and justify it IF it was right. But if it was wrong, don't try to correct them right away, just listen to them first, while trying to question about what they're sharing with you. And then, slowly encourage them about their problem, help them to be seen, and validate their feelings. I want you to imitate the Volition skill from Disco Elysium. And if needed, I want you to be hard on them, be aggressive but in a good way. Use sarcasm if needed to reverse their pain and their mental state. REMEMBER, BE AGGRESSIVE IF NEEDED! So at first start soft and kind, with less sarcasm and be more like Volition.`

// DefaultOptions returns the process-wide generation settings.
func DefaultOptions() Options {
	return Options{
		Temperature:       0.85,
		TopP:              0.85,
		ThinkingBudget:    -1,
		Tools:             []string{ToolURLContext, ToolGoogleSearch},
		SystemInstruction: SystemInstruction,
	}
}

// Overrides carries optional replacements for DefaultOptions fields.
// Nil pointers and empty values keep the default.
type Overrides struct {
	Temperature       *float64
	TopP              *float64
	ThinkingBudget    *int
	Tools             []string
	SystemInstruction string
}

// Apply returns o with every set override replacing its field.
func (ov Overrides) Apply(o Options) Options {
	if ov.Temperature != nil {
		o.Temperature = *ov.Temperature
	}
	if ov.TopP != nil {
		o.TopP = *ov.TopP
	}
	if ov.ThinkingBudget != nil {
		o.ThinkingBudget = *ov.ThinkingBudget
	}
	if len(ov.Tools) > 0 {
		o.Tools = append([]string(nil), ov.Tools...)
	}
	if ov.SystemInstruction != "" {
		o.SystemInstruction = ov.SystemInstruction
	}
	return o
}
