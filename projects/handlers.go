package projects

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"sync"

	"github.com/Makky101/AI-STORYBOARD-MAKER/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ScriptGenerator turns a free-text idea into an ordered list of scenes.
type ScriptGenerator interface {
	GenerateScript(ctx context.Context, idea string) ([]models.Scene, error)
}

// ImageGenerator turns an image prompt into an image reference.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

type Handler struct {
	DB     *gorm.DB
	Script ScriptGenerator
	Images ImageGenerator
}

func NewHandler(db *gorm.DB, script ScriptGenerator, images ImageGenerator) *Handler {
	return &Handler{DB: db, Script: script, Images: images}
}

type CreateProjectRequest struct {
	Title string `json:"title" binding:"required"`
	Input string `json:"input" binding:"required"`
}

type UpdateSceneRequest struct {
	Title       string `json:"title" binding:"required"`
	Location    string `json:"location" binding:"required"`
	Description string `json:"description" binding:"required"`
	Action      string `json:"action" binding:"required"`
	Mood        string `json:"mood" binding:"required"`
}

// ListProjects returns every project owned by the caller.
func (h *Handler) ListProjects(c *gin.Context) {
	userID := c.GetUint("user_id")

	var projects []models.Project
	if err := h.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&projects).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve projects"})
		return
	}

	c.JSON(http.StatusOK, projects)
}

// CreateProject generates a script from the submitted idea and persists the
// project together with its scenes in one transaction. If generation fails,
// nothing is written.
func (h *Handler) CreateProject(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title and input are required"})
		return
	}

	scenes, err := h.Script.GenerateScript(c.Request.Context(), req.Input)
	if err != nil {
		log.Printf("Script generation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate script"})
		return
	}

	project := models.Project{
		UserID: userID,
		Title:  req.Title,
		Input:  req.Input,
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&project).Error; err != nil {
			return err
		}
		for i := range scenes {
			scenes[i].ProjectID = project.ID
			if err := tx.Create(&scenes[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("Failed to save project: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save project"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"project": project, "scenes": scenes})
}

// GetProject returns a project and its scenes ordered by scene number.
// A project owned by someone else is reported as not found.
func (h *Handler) GetProject(c *gin.Context) {
	userID := c.GetUint("user_id")

	project, ok := h.ownedProject(c, userID)
	if !ok {
		return
	}

	scenes, err := h.projectScenes(project.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve scenes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"project": project, "scenes": scenes})
}

// DeleteProject removes a project; the database cascades to its scenes.
func (h *Handler) DeleteProject(c *gin.Context) {
	userID := c.GetUint("user_id")

	project, ok := h.ownedProject(c, userID)
	if !ok {
		return
	}

	if err := h.DB.Delete(&project).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete project"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Project deleted"})
}

// UpdateScene edits a scene's narrative fields. Ownership is verified through
// the parent project, never from the scene id alone.
func (h *Handler) UpdateScene(c *gin.Context) {
	userID := c.GetUint("user_id")

	sceneID, err := strconv.ParseUint(c.Param("sceneId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid scene ID"})
		return
	}

	var req UpdateSceneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "All scene fields are required"})
		return
	}

	var scene models.Scene
	err = h.DB.
		Joins("JOIN projects ON projects.id = scenes.project_id").
		Where("scenes.id = ? AND projects.user_id = ?", sceneID, userID).
		First(&scene).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Scene not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		}
		return
	}

	updates := map[string]interface{}{
		"title":       req.Title,
		"location":    req.Location,
		"description": req.Description,
		"action":      req.Action,
		"mood":        req.Mood,
	}
	if err := h.DB.Model(&scene).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update scene"})
		return
	}

	c.JSON(http.StatusOK, scene)
}

// GenerateImages illustrates every scene of a project that does not have an
// image yet. Each scene is an independent unit of work: all of them run
// concurrently, a single failure never aborts the others, and the response
// is the full ordered scene list once every task has settled. Scenes that
// already carry an image pass through untouched, so retrying the operation
// only attempts the still-missing ones.
func (h *Handler) GenerateImages(c *gin.Context) {
	userID := c.GetUint("user_id")

	project, ok := h.ownedProject(c, userID)
	if !ok {
		return
	}

	scenes, err := h.projectScenes(project.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve scenes"})
		return
	}

	results := make([]models.Scene, len(scenes))
	copy(results, scenes)

	ctx := c.Request.Context()
	var wg sync.WaitGroup

	// Fan-out is unbounded on purpose: projects hold tens of scenes at most.
	for i := range scenes {
		if scenes[i].HasImage() {
			continue
		}

		wg.Add(1)
		go func(i int, scene models.Scene) {
			defer wg.Done()

			url, err := h.Images.GenerateImage(ctx, scene.ImagePrompt)
			if err != nil {
				log.Printf("Image generation failed for scene %d: %v", scene.ID, err)
				return
			}

			// image_url is write-once: only set where it is still absent.
			err = h.DB.Model(&models.Scene{}).
				Where("id = ? AND image_url IS NULL", scene.ID).
				Update("image_url", url).Error
			if err != nil {
				log.Printf("Failed to save image for scene %d: %v", scene.ID, err)
				return
			}

			scene.ImageURL = &url
			results[i] = scene
		}(i, scenes[i])
	}

	wg.Wait()

	c.JSON(http.StatusOK, results)
}

// ownedProject loads the project from the :id param, enforcing ownership.
// Missing and not-owned are the same 404 so project ids cannot be probed.
// It writes the error response itself and reports success via ok.
func (h *Handler) ownedProject(c *gin.Context, userID uint) (models.Project, bool) {
	var project models.Project

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return project, false
	}

	err = h.DB.First(&project, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		}
		return project, false
	}

	return project, true
}

func (h *Handler) projectScenes(projectID uint) ([]models.Scene, error) {
	var scenes []models.Scene
	err := h.DB.Where("project_id = ?", projectID).Order("scene_number ASC").Find(&scenes).Error
	return scenes, err
}
