package handlers

import (
	"backend/models"
	"backend/services"
	"backend/storage"
	"bytes"
	"database/sql"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

const (
	thumbWidth  = 160
	thumbHeight = 120
	lowWidth    = 400
	lowHeight   = 300

	maxAttachmentBytes = 20 << 20
)

// resizeJPEG resamples the decoded image into a w x h box and
// re-encodes it as JPEG.
func resizeJPEG(src image.Image, w, h int) ([]byte, error) {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 85}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UploadAttachmentHandler godoc
// @Summary      Upload inspection photo
// @Description  Stores the original plus thumb (160x120) and low (400x300) variants
// @Tags         attachments
// @Accept       multipart/form-data
// @Produce      json
// @Param        id               path      int     true   "Equipment ID"
// @Param        file             formData  file    true   "Image file"
// @Param        name             formData  string  false  "Display name"
// @Param        inspection_item  formData  string  false  "Checklist item ID"
// @Success      201              {object}  models.Attachment
// @Failure      400              {object}  object
// @Router       /api/equipment/{id}/attachments [post]
func UploadAttachmentHandler(db *sql.DB, blobs *storage.BlobStore, cache *services.ReportCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, _, ok := requireSession(c, db); !ok {
			return
		}
		equipmentID, ok := paramInt(c, "id")
		if !ok {
			return
		}

		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
			return
		}
		if fileHeader.Size > maxAttachmentBytes {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file too large"})
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		defer file.Close()

		original, err := io.ReadAll(file)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		src, _, err := image.Decode(bytes.NewReader(original))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported image format"})
			return
		}

		thumb, err := resizeJPEG(src, thumbWidth, thumbHeight)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		low, err := resizeJPEG(src, lowWidth, lowHeight)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		name := c.PostForm("name")
		if name == "" {
			name = fileHeader.Filename
		}

		id := uuid.NewString()
		att := models.Attachment{
			EquipmentID:    equipmentID,
			InspectionItem: c.PostForm("inspection_item"),
			Name:           name,
			LargeName:      id + "_large.jpg",
			ThumbName:      id + "_thumb.jpg",
			LowName:        id + "_low.jpg",
		}

		container := strconv.Itoa(equipmentID)
		for _, v := range []struct {
			blobName string
			data     []byte
		}{
			{att.LargeName, original},
			{att.ThumbName, thumb},
			{att.LowName, low},
		} {
			if err := blobs.Save(container, v.blobName, v.data); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
		}

		err = db.QueryRow(`
			INSERT INTO attachment (equipment_id, inspection_item, name,
			    low_name, thumb_name, large_name, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, NOW())
			RETURNING attachment_id, created_at`,
			att.EquipmentID, att.InspectionItem, att.Name,
			att.LowName, att.ThumbName, att.LargeName,
		).Scan(&att.AttachmentID, &att.CreatedAt)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		setAttachmentURLs(&att)
		invalidateByEquipment(db, cache, equipmentID)
		c.JSON(http.StatusCreated, att)
	}
}

// GetAttachmentsByEquipmentHandler godoc
// @Summary      List attachments for an equipment unit
// @Tags         attachments
// @Produce      json
// @Param        id   path      int  true  "Equipment ID"
// @Success      200  {array}   models.Attachment
// @Router       /api/equipment/{id}/attachments [get]
func GetAttachmentsByEquipmentHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, _, ok := requireSession(c, db); !ok {
			return
		}
		equipmentID, ok := paramInt(c, "id")
		if !ok {
			return
		}

		rows, err := db.Query(`
			SELECT attachment_id, equipment_id, COALESCE(inspection_item, ''),
			       name, low_name, thumb_name, large_name, created_at
			FROM attachment
			WHERE equipment_id = $1
			ORDER BY attachment_id`, equipmentID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		defer rows.Close()

		attachments := []models.Attachment{}
		for rows.Next() {
			var a models.Attachment
			err := rows.Scan(&a.AttachmentID, &a.EquipmentID, &a.InspectionItem,
				&a.Name, &a.LowName, &a.ThumbName, &a.LargeName, &a.CreatedAt)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			setAttachmentURLs(&a)
			attachments = append(attachments, a)
		}

		c.JSON(http.StatusOK, attachments)
	}
}

// DownloadAttachmentHandler godoc
// @Summary      Download attachment variant
// @Description  variant query selects thumb, low or large (default large)
// @Tags         attachments
// @Produce      image/jpeg
// @Param        id       path      int     true   "Attachment ID"
// @Param        variant  query     string  false  "thumb | low | large"
// @Success      200      {file}    file
// @Failure      404      {object}  object
// @Router       /api/attachments/{id}/download [get]
func DownloadAttachmentHandler(db *sql.DB, blobs *storage.BlobStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, _, ok := requireSession(c, db); !ok {
			return
		}
		attachmentID, ok := paramInt(c, "id")
		if !ok {
			return
		}

		var equipmentID int
		var lowName, thumbName, largeName string
		err := db.QueryRow(`
			SELECT equipment_id, low_name, thumb_name, large_name
			FROM attachment WHERE attachment_id = $1`, attachmentID,
		).Scan(&equipmentID, &lowName, &thumbName, &largeName)
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Attachment not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		var blobName string
		switch strings.ToLower(c.Query("variant")) {
		case "thumb":
			blobName = thumbName
		case "low":
			blobName = lowName
		default:
			blobName = largeName
		}

		data, err := blobs.Fetch(strconv.Itoa(equipmentID), blobName)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Attachment blob not found"})
			return
		}

		c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%s", blobName))
		c.Data(http.StatusOK, "image/jpeg", data)
	}
}

// DeleteAttachmentHandler godoc
// @Summary      Delete attachment
// @Tags         attachments
// @Param        id   path      int  true  "Attachment ID"
// @Success      200  {object}  object
// @Failure      404  {object}  object
// @Router       /api/attachments/{id} [delete]
func DeleteAttachmentHandler(db *sql.DB, cache *services.ReportCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, _, ok := requireSession(c, db); !ok {
			return
		}
		attachmentID, ok := paramInt(c, "id")
		if !ok {
			return
		}

		var equipmentID int
		err := db.QueryRow(`
			DELETE FROM attachment WHERE attachment_id = $1
			RETURNING equipment_id`, attachmentID,
		).Scan(&equipmentID)
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": "Attachment not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		invalidateByEquipment(db, cache, equipmentID)
		c.JSON(http.StatusOK, gin.H{"message": "Attachment deleted"})
	}
}

func setAttachmentURLs(a *models.Attachment) {
	base := fmt.Sprintf("/api/attachments/%d/download", a.AttachmentID)
	a.LargeURL = base + "?variant=large"
	a.ThumbURL = base + "?variant=thumb"
	a.LowURL = base + "?variant=low"
}
