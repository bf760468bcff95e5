package service

import (
	"github.com/katakuxiko/paperrelay/internal/config"
	"github.com/katakuxiko/paperrelay/internal/model"
)

const (
	LabelTranslate = "translate"
	LabelExplain   = "explain"
)

const (
	translateInstruction = "你是一名专业的论文翻译员，精通学术英语与科技写作。你的任务是将用户提供的论文文本翻译成流畅、精准的目标语言（如中文或英文）。"
	explainInstruction   = "你是一位专业的论文理解工程师，精通人工智能、计算机科学、自然语言处理及科学研究方法。你的任务是帮助用户理解论文或相关技术内容。"
)

// Prompts maps request labels to prompt/model variants.
// Unknown labels fall back to the explain variant.
type Prompts struct {
	variants map[string]model.Variant
	fallback model.Variant
}

// NewPrompts builds the table from config. Extra variants from the prompts
// file are added afterwards and may replace the built-in ones.
func NewPrompts(cfg *config.Config, extra []config.PromptVariant) *Prompts {
	p := &Prompts{variants: map[string]model.Variant{
		LabelTranslate: {Label: LabelTranslate, Model: cfg.TranslateModel, Instruction: translateInstruction},
		LabelExplain:   {Label: LabelExplain, Model: cfg.ExplainModel, Instruction: explainInstruction},
	}}
	for _, v := range extra {
		cur := p.variants[v.Label]
		cur.Label = v.Label
		if v.Model != "" {
			cur.Model = v.Model
		}
		if v.Instruction != "" {
			cur.Instruction = v.Instruction
		}
		if cur.Model == "" {
			cur.Model = cfg.ExplainModel
		}
		if cur.Instruction == "" {
			cur.Instruction = explainInstruction
		}
		p.variants[v.Label] = cur
	}
	p.fallback = p.variants[LabelExplain]
	return p
}

// Select returns the variant for label. Matching is exact.
func (p *Prompts) Select(label string) model.Variant {
	if v, ok := p.variants[label]; ok {
		return v
	}
	return p.fallback
}
