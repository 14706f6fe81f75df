package llm

import "github.com/ppiankov/replyscore/internal/model"

var testFacts = model.FactSet{
	{Name: "exam_type", Value: "ULTRASSONOGRAFIA"},
	{Name: "performed_on", Value: "31/01/2025"},
	{Name: "report_due", Value: "03/02/2025"},
}

const testCandidate = "Você tem um exame de ULTRASSONOGRAFIA realizado em 31/01/2025. O laudo está previsto para 03/02/2025."

const validJudgeJSON = `{"exam_type_present": true, "performed_on_present": true, "report_due_present": true, "all_correct": true, "confidence": 0.9, "notes": "all facts stated"}`
