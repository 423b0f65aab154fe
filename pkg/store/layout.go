package store

import (
	"encoding/json"
	"fmt"

	"github.com/umputun/sourcedeck/pkg/domain"
)

// Layout is the persisted shape of the records under one key
type Layout string

// supported layouts
const (
	LayoutEnvelope   Layout = "envelope"    // [{id, name, source_type, config, secrets}]
	LayoutPDFFiles   Layout = "pdf_files"   // [{id, name, url, file}]
	LayoutExcelFiles Layout = "excel_files" // [{id, name, fileName, file}]
	LayoutSheets     Layout = "sheets"      // [{id, name, sheetId}]
)

type pdfRecord struct {
	ID             domain.LooseID     `json:"id,omitempty"`
	Name           string             `json:"name"`
	URL            string             `json:"url,omitempty"`
	MaxAllowedSize string             `json:"max_allowed_size,omitempty"`
	File           *domain.Attachment `json:"file,omitempty"`
}

type excelRecord struct {
	ID       domain.LooseID     `json:"id,omitempty"`
	Name     string             `json:"name"`
	FileName string             `json:"fileName"`
	File     *domain.Attachment `json:"file,omitempty"`
}

type sheetRecord struct {
	ID      domain.LooseID     `json:"id,omitempty"`
	Name    string             `json:"name"`
	SheetID string             `json:"sheetId"`
	File    *domain.Attachment `json:"file,omitempty"`
}

func (l Layout) decode(data []byte, t domain.SourceType) ([]domain.Source, error) {
	switch l {
	case LayoutEnvelope:
		return decodeEnvelopes(data, t)
	case LayoutPDFFiles:
		var recs []pdfRecord
		if err := json.Unmarshal(data, &recs); err != nil {
			return nil, err
		}
		res := make([]domain.Source, 0, len(recs))
		for _, r := range recs {
			res = append(res, domain.Source{ID: string(r.ID), Name: r.Name, Type: domain.SourcePDF,
				Config: &domain.PDFConfig{MaxAllowedSize: r.MaxAllowedSize, File: r.File}})
		}
		return res, nil
	case LayoutExcelFiles:
		var recs []excelRecord
		if err := json.Unmarshal(data, &recs); err != nil {
			return nil, err
		}
		res := make([]domain.Source, 0, len(recs))
		for _, r := range recs {
			file := r.File
			if file == nil && r.FileName != "" {
				// older records kept only the file name
				file = &domain.Attachment{Name: r.FileName}
			}
			res = append(res, domain.Source{ID: string(r.ID), Name: r.Name, Type: domain.SourceExcel,
				Config: &domain.ExcelConfig{File: file}})
		}
		return res, nil
	case LayoutSheets:
		var recs []sheetRecord
		if err := json.Unmarshal(data, &recs); err != nil {
			return nil, err
		}
		res := make([]domain.Source, 0, len(recs))
		for _, r := range recs {
			res = append(res, domain.Source{ID: string(r.ID), Name: r.Name, Type: domain.SourceGoogleSheets,
				Config: &domain.GoogleSheetsConfig{SheetID: r.SheetID, File: r.File}})
		}
		return res, nil
	default:
		return nil, fmt.Errorf("unknown layout %q", l)
	}
}

func (l Layout) encode(list []domain.Source, fileURL func(id string) string) ([]byte, error) {
	switch l {
	case LayoutEnvelope:
		if list == nil {
			list = []domain.Source{}
		}
		return json.Marshal(list)
	case LayoutPDFFiles:
		recs := make([]pdfRecord, 0, len(list))
		for _, s := range list {
			cfg, ok := s.Config.(*domain.PDFConfig)
			if !ok {
				return nil, fmt.Errorf("record %s is %s, not pdf", s.ID, s.Type)
			}
			rec := pdfRecord{ID: domain.LooseID(s.ID), Name: s.Name, MaxAllowedSize: cfg.MaxAllowedSize, File: cfg.File}
			if cfg.File != nil && fileURL != nil {
				rec.URL = fileURL(s.ID)
			}
			recs = append(recs, rec)
		}
		return json.Marshal(recs)
	case LayoutExcelFiles:
		recs := make([]excelRecord, 0, len(list))
		for _, s := range list {
			cfg, ok := s.Config.(*domain.ExcelConfig)
			if !ok {
				return nil, fmt.Errorf("record %s is %s, not excel", s.ID, s.Type)
			}
			rec := excelRecord{ID: domain.LooseID(s.ID), Name: s.Name, File: cfg.File}
			if cfg.File != nil {
				rec.FileName = cfg.File.Name
			}
			recs = append(recs, rec)
		}
		return json.Marshal(recs)
	case LayoutSheets:
		recs := make([]sheetRecord, 0, len(list))
		for _, s := range list {
			cfg, ok := s.Config.(*domain.GoogleSheetsConfig)
			if !ok {
				return nil, fmt.Errorf("record %s is %s, not google_sheets", s.ID, s.Type)
			}
			recs = append(recs, sheetRecord{ID: domain.LooseID(s.ID), Name: s.Name, SheetID: cfg.SheetID, File: cfg.File})
		}
		return json.Marshal(recs)
	default:
		return nil, fmt.Errorf("unknown layout %q", l)
	}
}

// decodeEnvelopes reads envelope records, filling a missing source_type with t
func decodeEnvelopes(data []byte, t domain.SourceType) ([]domain.Source, error) {
	var raws []map[string]json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, err
	}
	res := make([]domain.Source, 0, len(raws))
	for i, raw := range raws {
		if _, ok := raw["source_type"]; !ok && t != "" {
			tag, err := json.Marshal(t)
			if err != nil {
				return nil, err
			}
			raw["source_type"] = tag
		}
		buf, err := json.Marshal(raw)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		var src domain.Source
		if err := json.Unmarshal(buf, &src); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		res = append(res, src)
	}
	return res, nil
}
