package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-pdf/fpdf"
)

// Template palette.
type rgb struct{ r, g, b int }

var (
	colorDarkBlue    = rgb{0x1B, 0x2A, 0x4A}
	colorGreenBanner = rgb{0x4C, 0xAF, 0x50}
	colorDarkGreen   = rgb{0x2E, 0x7D, 0x32}
	colorNavy        = rgb{0x1A, 0x23, 0x7E}
	colorRedBanner   = rgb{0xD3, 0x2F, 0x2F}
	colorLightGray   = rgb{0xF5, 0xF5, 0xF5}
	colorMedGray     = rgb{0x9E, 0x9E, 0x9E}
	colorDarkGray    = rgb{0x42, 0x42, 0x42}
	colorWhite       = rgb{0xFF, 0xFF, 0xFF}
	colorBlack       = rgb{0x00, 0x00, 0x00}
	colorBlueLink    = rgb{0x15, 0x65, 0xC0}
	colorOrange      = rgb{0xFF, 0x98, 0x00}
	colorHighRed     = rgb{0xE5, 0x39, 0x35}
)

var impactColors = map[string]rgb{
	"LOW":      colorGreenBanner,
	"MODERATE": colorOrange,
	"HIGH":     colorHighRed,
}

const (
	pageW    = 612.0 // Letter, points
	marginL  = 20.0
	marginR  = 20.0
	contentW = pageW - marginL - marginR
)

// GenerateReportPDF renders the one-page branded report. Missing logo or
// photo files render as gray placeholders rather than failing the run.
func GenerateReportPDF(data ReportData, logosDir, outputPath string) error {
	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetTitle(fmt.Sprintf("Weekly Progress Report #%s - %s", data.ReportNumber, data.ProjectName), true)
	pdf.SetAuthor(data.PreparedBy, true)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(marginL, 0, marginR)
	pdf.AddPage()

	// Core fonts are cp1252; fold the em dashes and smart quotes up front.
	data = data.translated(pdf.UnicodeTranslatorFromDescriptor(""))

	y := 8.0

	// Header: left logo, centered titles, right logos.
	headerH := 78.0
	drawImageBox(pdf, filepath.Join(logosDir, "cm_logo.png"), marginL, y, 75, headerH)
	setFont(pdf, "B", 14, colorDarkBlue)
	centerText(pdf, pageW/2, y+18, data.ProjectName)
	setFont(pdf, "B", 11, colorBlack)
	centerText(pdf, pageW/2, y+36, data.ProjectSubtitle)
	setFont(pdf, "B", 8, colorDarkGreen)
	centerText(pdf, pageW/2, y+50, "Project Address: "+data.ProjectAddress)
	logoRX := pageW - marginR - 105
	drawImageBox(pdf, filepath.Join(logosDir, "school_logo.jpg"), logoRX, y, 48, headerH/2)
	drawImageBox(pdf, filepath.Join(logosDir, "district_logo.jpg"), logoRX+52, y, 53, headerH)
	y += headerH + 4

	// Report number banner.
	bannerH := 22.0
	fillRect(pdf, marginL, y, contentW, bannerH, colorGreenBanner)
	setFont(pdf, "B", 13, colorWhite)
	centerText(pdf, pageW/2, y+15, "WEEKLY CONSTRUCTION PROGRESS REPORT "+data.ReportNumber)
	y += bannerH + 2

	// Architect block on the left, boxed description on the right.
	infoH := 90.0
	infoLW := 130.0
	lx, ly := marginL+4, y+12
	for _, pair := range [][2]string{
		{"Architect:", data.Architect},
		{"Project Duration:", data.ProjectDuration},
		{"Prepared by:", data.PreparedBy},
	} {
		setFont(pdf, "B", 8, colorBlack)
		pdf.Text(lx, ly, pair[0])
		ly += 11
		setFont(pdf, "BI", 8, colorDarkGreen)
		pdf.Text(lx, ly, pair[1])
		ly += 12
	}
	descX := marginL + infoLW + 5
	descW := contentW - infoLW - 10
	setFont(pdf, "B", 13, colorDarkGreen)
	centerText(pdf, descX+descW/2, y+13, "PROJECT DESCRIPTION")
	strokeRect(pdf, descX, y+18, descW, infoH-18)
	setFont(pdf, "", 6.5, colorBlack)
	dy := y + 27
	for _, line := range pdf.SplitText(data.ProjectDescription, descW-8) {
		pdf.Text(descX+4, dy, line)
		dy += 8.5
	}
	y += infoH + 2

	// Details / countdown banners.
	bh2 := 18.0
	leftBW := contentW * 0.58
	rightBW := contentW - leftBW
	fillRect(pdf, marginL, y, leftBW, bh2, colorNavy)
	setFont(pdf, "B", 11, colorWhite)
	centerText(pdf, marginL+leftBW/2, y+13, "PROJECT REPORT DETAILS")
	fillRect(pdf, marginL+leftBW, y, rightBW, bh2, colorDarkGreen)
	setFont(pdf, "B", 9, colorWhite)
	centerText(pdf, marginL+leftBW+rightBW/2, y+12, "Substantial Completion Countdown")
	y += bh2

	// Details box, two columns: week dates left, GC/CM right.
	dh := 32.0
	strokeRect(pdf, marginL, y, leftBW, dh)
	dx := marginL + 6
	labelValue(pdf, dx, y+12, "Report Week: ", data.ReportWeek, 70, 8)
	labelValue(pdf, dx, y+24, "Issued: ", data.IssuedDate, 40, 8)
	rx := marginL + leftBW/2 + 10
	labelValue(pdf, rx, y+12, "General Contractor: ", data.GeneralContractor, 95, 7.5)
	setFont(pdf, "B", 7.5, colorBlack)
	pdf.Text(rx, y+24, "Construction Manager: ")
	setFont(pdf, "B", 7.5, colorDarkGreen)
	pdf.Text(rx+105, y+24, data.ConstructionManager)

	cx := marginL + leftBW
	fillRect(pdf, cx, y, rightBW, dh, colorLightGray)
	strokeRect(pdf, cx, y, rightBW, dh)
	setFont(pdf, "B", 26, colorRedBanner)
	centerText(pdf, cx+rightBW/2-30, y+26, data.CountdownDays)
	setFont(pdf, "B", 11, colorDarkBlue)
	pdf.Text(cx+rightBW/2, y+22, "Calendar Days")
	y += dh + 2

	// Activities / impact banners.
	abh := 18.0
	leftCol := contentW * 0.55
	rightX := marginL + leftCol + 2
	impactW := contentW - leftCol - 2
	fillRect(pdf, marginL, y, leftCol, abh, colorGreenBanner)
	setFont(pdf, "B", 11, colorWhite)
	centerText(pdf, marginL+leftCol/2, y+13, "THIS WEEK'S COMPLETED ACTIVITIES")
	fillRect(pdf, rightX, y, impactW, abh, colorRedBanner)
	setFont(pdf, "B", 9, colorWhite)
	centerText(pdf, rightX+impactW/2, y+13, "3-WEEK CONSTRUCTION IMPACT")
	y += abh

	// Main content: status + completed activities left, impact grid and
	// first photos right.
	mainH := 195.0
	strokeRect(pdf, marginL, y, leftCol, mainH)
	lx, ly = marginL+6, y+11
	actW := leftCol/2 - 8
	labelValue(pdf, lx, ly, "Phase: ", data.Phase, 32, 7.5)
	ly += 10
	labelValue(pdf, lx, ly, "Overall Progress: ", data.OverallProgress+"% Complete", 78, 7.5)
	ly += 10
	labelValue(pdf, lx, ly, "Schedule Status: ", data.ScheduleStatus, 73, 7.5)
	ly += 12
	setFont(pdf, "B", 7.5, colorBlack)
	pdf.Text(lx, ly, "Activities Completed:")
	ly += 10
	drawBulletList(pdf, data.ActivitiesCompleted, lx, ly, actW, 6.5, colorBlack, 9)

	mx, my := marginL+leftCol/2+5, y+11
	setFont(pdf, "B", 7.5, colorBlack)
	pdf.Text(mx, my, "Milestones Achieved:")
	my += 10
	my = drawBulletList(pdf, data.MilestonesAchieved, mx, my, actW, 6.5, colorBlack, 9)
	my += 8
	setFont(pdf, "B", 7.5, colorBlack)
	pdf.Text(mx, my, "Critical Items:")
	my += 10
	drawBulletList(pdf, data.CriticalItems, mx, my, actW, 6.5, colorRedBanner, 9)

	drawImpactGrid(pdf, data, rightX, y, impactW)

	pw := impactW - 4
	psy := y + 80
	for i := 0; i < len(data.Photos) && i < 2; i++ {
		py := psy + float64(i)*54
		drawImageBox(pdf, data.Photos[i], rightX+2, py, pw, 50)
		if i < len(data.PhotoCaptions) {
			drawCaption(pdf, data.PhotoCaptions[i], rightX+2, py+40, pw)
		}
	}
	y += mainH + 2

	// Next week banner and content.
	nbh := 18.0
	fillRect(pdf, marginL, y, contentW, nbh, colorGreenBanner)
	setFont(pdf, "B", 12, colorWhite)
	centerText(pdf, pageW/2, y+14, "NEXT WEEK ACTIVITY PROJECTION")
	y += nbh

	nh := 155.0
	strokeRect(pdf, marginL, y, leftCol, nh)
	lx, ly = marginL+6, y+12
	setFont(pdf, "B", 8, colorBlack)
	pdf.Text(lx, ly, "PLANNED ACTIVITIES")
	ly += 11
	ly = drawBulletList(pdf, data.PlannedActivities, lx, ly, leftCol-15, 7, colorBlack, 11)
	ly += 6
	setFont(pdf, "B", 7.5, colorBlack)
	pdf.Text(lx, ly, "ANTICIPATED IMPACT LEVELS")
	ly += 12
	labelValue(pdf, lx, ly, "NOISE INDEX: ", fmt.Sprintf("%s  (Level %s)", data.NoiseIndex, data.NoiseLevel), 68, 7)
	ly += 10
	setFont(pdf, "", 6.5, colorBlack)
	pdf.Text(lx, ly, "Peak Impact Times: Mon-Fri 7:00 AM - 3:00 PM")
	ly += 14
	setFont(pdf, "B", 7.5, colorBlack)
	pdf.Text(lx, ly, "SPECIAL CONSIDERATIONS")
	ly += 10
	drawBulletList(pdf, data.SpecialConsiderations, lx, ly, leftCol-15, 6.5, colorBlack, 9)

	for i := 2; i < len(data.Photos) && i < 4; i++ {
		py := y + 5 + float64(i-2)*75
		drawImageBox(pdf, data.Photos[i], rightX+2, py, pw, 70)
		if i < len(data.PhotoCaptions) {
			drawCaption(pdf, data.PhotoCaptions[i], rightX+2, py+60, pw)
		}
	}
	y += nh + 2

	// Commitment block and footer.
	cbh := 22.0
	fillRect(pdf, marginL, y, contentW, cbh, colorDarkBlue)
	setFont(pdf, "B", 14, colorWhite)
	pdf.Text(marginL+10, y+16, "COMMITMENT")
	y += cbh

	ch := 65.0
	strokeRect(pdf, marginL, y, contentW, ch)
	cxT, cyT := marginL+8, y+12
	setFont(pdf, "", 7, colorBlack)
	full := "Community Promise: " + data.CommitmentText
	for i, line := range pdf.SplitText(full, contentW-20) {
		if i == 0 && strings.HasPrefix(line, "Community Promise:") {
			setFont(pdf, "B", 7, colorBlack)
			pdf.Text(cxT, cyT, "Community Promise: ")
			setFont(pdf, "", 7, colorBlack)
			pdf.Text(cxT+88, cyT, strings.TrimPrefix(line, "Community Promise: "))
		} else {
			pdf.Text(cxT, cyT, line)
		}
		cyT += 9
	}
	cyT += 2
	setFont(pdf, "B", 7.5, colorBlack)
	pdf.Text(cxT, cyT, "Direct Contact for Immediate Issues:")
	cyT += 10
	setFont(pdf, "B", 7, colorBlack)
	lead := fmt.Sprintf("%s %s | ", data.ContactName, data.ContactPhone)
	pdf.Text(cxT, cyT, lead)
	leadW := pdf.GetStringWidth(lead)
	setFont(pdf, "", 7, colorBlueLink)
	pdf.Text(cxT+leadW, cyT, data.ContactEmail)
	cyT += 14
	setFont(pdf, "BI", 9, colorNavy)
	centerText(pdf, pageW/2, cyT, data.District)

	if err := pdf.OutputFileAndClose(outputPath); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// translated maps every rendered string through the cp1252 translator.
// Photo paths are left alone.
func (d ReportData) translated(tr func(string) string) ReportData {
	trList := func(items []string) []string {
		out := make([]string, len(items))
		for i, s := range items {
			out[i] = tr(s)
		}
		return out
	}
	d.ReportWeek = tr(d.ReportWeek)
	d.IssuedDate = tr(d.IssuedDate)
	d.ProjectName = tr(d.ProjectName)
	d.ProjectSubtitle = tr(d.ProjectSubtitle)
	d.ProjectAddress = tr(d.ProjectAddress)
	d.Architect = tr(d.Architect)
	d.ProjectDuration = tr(d.ProjectDuration)
	d.PreparedBy = tr(d.PreparedBy)
	d.GeneralContractor = tr(d.GeneralContractor)
	d.ConstructionManager = tr(d.ConstructionManager)
	d.District = tr(d.District)
	d.ProjectDescription = tr(d.ProjectDescription)
	d.Phase = tr(d.Phase)
	d.ScheduleStatus = tr(d.ScheduleStatus)
	d.ActivitiesCompleted = trList(d.ActivitiesCompleted)
	d.MilestonesAchieved = trList(d.MilestonesAchieved)
	d.CriticalItems = trList(d.CriticalItems)
	d.Week1Dates = tr(d.Week1Dates)
	d.Week1Activities = trList(d.Week1Activities)
	d.Week2Dates = tr(d.Week2Dates)
	d.Week2Activities = trList(d.Week2Activities)
	d.Week3Dates = tr(d.Week3Dates)
	d.Week3Activities = trList(d.Week3Activities)
	d.PlannedActivities = trList(d.PlannedActivities)
	d.NoiseIndex = tr(d.NoiseIndex)
	d.SpecialConsiderations = trList(d.SpecialConsiderations)
	d.PhotoCaptions = trList(d.PhotoCaptions)
	d.CommitmentText = tr(d.CommitmentText)
	d.ContactName = tr(d.ContactName)
	return d
}

func drawImpactGrid(pdf *fpdf.Fpdf, data ReportData, rightX, y, impactW float64) {
	weeks := []struct {
		dates, level string
		activities   []string
	}{
		{data.Week1Dates, data.Week1Level, data.Week1Activities},
		{data.Week2Dates, data.Week2Level, data.Week2Activities},
		{data.Week3Dates, data.Week3Level, data.Week3Activities},
	}
	colW := impactW / 3
	for i, wk := range weeks {
		gx := rightX + float64(i)*colW
		setFont(pdf, "B", 7, colorBlack)
		centerText(pdf, gx+colW/2, y+10, fmt.Sprintf("Week %d", i+1))
		setFont(pdf, "", 5.5, colorMedGray)
		centerText(pdf, gx+colW/2, y+19, "("+wk.dates+")")

		level := strings.ToUpper(wk.level)
		badge, ok := impactColors[level]
		if !ok {
			badge = colorOrange
		}
		bw := colW - 8
		bx, by := gx+4, y+21
		pdf.SetFillColor(badge.r, badge.g, badge.b)
		pdf.RoundedRect(bx, by, bw, 14, 2, "1234", "F")
		setFont(pdf, "B", 7, colorWhite)
		centerText(pdf, bx+bw/2, by+10, level)

		ay := by + 24
		for j, act := range wk.activities {
			if j >= 3 {
				break
			}
			if len(act) > 22 {
				act = act[:22] + "..."
			}
			setFont(pdf, "", 5.5, colorDarkGray)
			centerText(pdf, gx+colW/2, ay, act)
			ay += 8
		}
	}
}

// drawBulletList draws wrapped bullet items and returns the y position after the
// last line.
func drawBulletList(pdf *fpdf.Fpdf, items []string, x, y, maxWidth, size float64, color rgb, leading float64) float64 {
	const indent = 10.0
	for _, item := range items {
		setFont(pdf, "", size, color)
		pdf.Text(x, y, "\x95")
		for i, line := range pdf.SplitText(item, maxWidth-indent) {
			if i > 0 {
				y += leading
			}
			pdf.Text(x+indent, y, line)
		}
		y += leading
	}
	return y
}

func labelValue(pdf *fpdf.Fpdf, x, y float64, label, value string, valueOffset, size float64) {
	setFont(pdf, "B", size, colorBlack)
	pdf.Text(x, y, label)
	setFont(pdf, "", size, colorBlack)
	pdf.Text(x+valueOffset, y, value)
}

// drawImageBox places an image fit inside the box, or a gray placeholder
// when the file is absent or unreadable.
func drawImageBox(pdf *fpdf.Fpdf, path string, x, y, w, h float64) {
	if _, err := os.Stat(path); err == nil && imageType(path) != "" {
		opts := fpdf.ImageOptions{ImageType: imageType(path), ReadDpi: true}
		info := pdf.RegisterImageOptions(path, opts)
		if info != nil && pdf.Ok() {
			iw, ih := info.Extent()
			scale := w / iw
			if h/ih < scale {
				scale = h / ih
			}
			dw, dh := iw*scale, ih*scale
			pdf.ImageOptions(path, x+(w-dw)/2, y+(h-dh)/2, dw, dh, false, opts, 0, "")
			return
		}
	}
	pdf.SetDrawColor(colorMedGray.r, colorMedGray.g, colorMedGray.b)
	pdf.SetFillColor(colorLightGray.r, colorLightGray.g, colorLightGray.b)
	pdf.Rect(x, y, w, h, "FD")
	setFont(pdf, "", 6, colorMedGray)
	centerText(pdf, x+w/2, y+h/2, "["+filepath.Base(path)+"]")
}

func imageType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "JPG"
	case ".png":
		return "PNG"
	case ".gif":
		return "GIF"
	}
	return ""
}

func drawCaption(pdf *fpdf.Fpdf, caption string, x, y, w float64) {
	pdf.SetFillColor(colorDarkGray.r, colorDarkGray.g, colorDarkGray.b)
	pdf.Rect(x, y, w, 10, "F")
	setFont(pdf, "B", 5.5, colorWhite)
	pdf.Text(x+3, y+7, caption)
}

func setFont(pdf *fpdf.Fpdf, style string, size float64, color rgb) {
	pdf.SetFont("Helvetica", style, size)
	pdf.SetTextColor(color.r, color.g, color.b)
}

func centerText(pdf *fpdf.Fpdf, cx, y float64, s string) {
	pdf.Text(cx-pdf.GetStringWidth(s)/2, y, s)
}

func fillRect(pdf *fpdf.Fpdf, x, y, w, h float64, color rgb) {
	pdf.SetFillColor(color.r, color.g, color.b)
	pdf.Rect(x, y, w, h, "F")
}

func strokeRect(pdf *fpdf.Fpdf, x, y, w, h float64) {
	pdf.SetDrawColor(colorMedGray.r, colorMedGray.g, colorMedGray.b)
	pdf.SetLineWidth(0.5)
	pdf.Rect(x, y, w, h, "D")
}
