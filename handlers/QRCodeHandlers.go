package handlers

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"
	"golang.org/x/image/font"
	"golang.org/x/image/font/inconsolata"
	"golang.org/x/image/math/fixed"
)

func drawTagText(img *image.RGBA, x, y int, label string, bold bool) {
	col := color.RGBA{0, 0, 0, 255}
	face := inconsolata.Regular8x16
	if bold {
		col = color.RGBA{30, 30, 30, 255}
		face = inconsolata.Bold8x16
	}

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.Int26_6(x * 64),
			Y: fixed.Int26_6(y * 64),
		},
	}
	d.DrawString(label)
}

func truncateTagValue(s string, max int) string {
	if len(s) > max {
		return s[:max-3] + "..."
	}
	return s
}

// GenerateEquipmentTagJPEG godoc
// @Summary      Generate equipment asset-tag QR as JPEG
// @Description  QR payload carries equipment and project ids; the label block below the code carries the human-readable details
// @Tags         qr
// @Produce      image/jpeg
// @Param        id   path      int  true  "Equipment ID"
// @Success      200  {file}    file  "JPEG image"
// @Failure      404  {object}  object
// @Router       /api/equipment/{id}/tag [get]
func GenerateEquipmentTagJPEG(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, _, ok := requireSession(c, db); !ok {
			return
		}
		equipmentID, ok := paramInt(c, "id")
		if !ok {
			return
		}

		var projectID int
		var equipmentName, category, projectName string
		var inspectionDate sql.NullTime
		err := db.QueryRow(`
			SELECT e.project_id, e.name, COALESCE(e.category, ''),
			       COALESCE(p.name, 'Unknown Project'), p.inspection_date
			FROM equipment e
			LEFT JOIN project p ON e.project_id = p.project_id
			WHERE e.equipment_id = $1`, equipmentID,
		).Scan(&projectID, &equipmentName, &category, &projectName, &inspectionDate)
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Equipment not found"})
			return
		}
		if err != nil {
			log.Printf("Error fetching equipment for tag: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch equipment"})
			return
		}

		qrData := struct {
			EquipmentID int    `json:"equipment_id"`
			ProjectID   int    `json:"project_id"`
			Name        string `json:"name"`
		}{
			EquipmentID: equipmentID,
			ProjectID:   projectID,
			Name:        equipmentName,
		}
		jsonData, err := json.Marshal(qrData)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to marshal tag data"})
			return
		}

		qr, err := qrcode.New(string(jsonData), qrcode.Medium)
		if err != nil {
			c.String(http.StatusInternalServerError, "QR code generation failed")
			return
		}
		qrImg := qr.Image(512)

		qrSize := qrImg.Bounds().Dy()
		padding := 30
		lineHeight := 28
		textAreaHeight := 5*lineHeight + padding
		totalHeight := qrSize + padding + textAreaHeight

		combinedImg := image.NewRGBA(image.Rect(0, 0, qrSize, totalHeight))
		draw.Draw(combinedImg, combinedImg.Bounds(), &image.Uniform{color.White}, image.Point{}, draw.Src)
		draw.Draw(combinedImg, image.Rect(0, 0, qrSize, qrSize), qrImg, image.Point{}, draw.Src)

		separatorY := qrSize + padding/2
		for x := 0; x < qrSize; x++ {
			combinedImg.Set(x, separatorY, color.RGBA{200, 200, 200, 255})
		}

		inspectionDateStr := "N/A"
		if inspectionDate.Valid && !inspectionDate.Time.IsZero() {
			inspectionDateStr = inspectionDate.Time.Format("2006-01-02")
		}

		startY := qrSize + padding + lineHeight
		xPos := 20

		drawTagText(combinedImg, xPos, startY, "Equipment ID:", true)
		drawTagText(combinedImg, xPos+130, startY, strconv.Itoa(equipmentID), false)

		drawTagText(combinedImg, xPos, startY+lineHeight, "Equipment:", true)
		drawTagText(combinedImg, xPos+130, startY+lineHeight, truncateTagValue(equipmentName, 30), false)

		drawTagText(combinedImg, xPos, startY+2*lineHeight, "Project:", true)
		drawTagText(combinedImg, xPos+130, startY+2*lineHeight, truncateTagValue(projectName, 30), false)

		drawTagText(combinedImg, xPos, startY+3*lineHeight, "Type:", true)
		drawTagText(combinedImg, xPos+130, startY+3*lineHeight, truncateTagValue(category, 25), false)

		drawTagText(combinedImg, xPos, startY+4*lineHeight, "Inspection:", true)
		drawTagText(combinedImg, xPos+130, startY+4*lineHeight, inspectionDateStr, false)

		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, combinedImg, nil); err != nil {
			c.String(http.StatusInternalServerError, "JPEG encoding failed")
			return
		}

		c.Header("Content-Disposition", "inline; filename=equipment_tag_"+strconv.Itoa(equipmentID)+".jpg")
		c.Data(http.StatusOK, "image/jpeg", buf.Bytes())
	}
}
