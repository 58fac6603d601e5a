package rest

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dfryer1193/teamdojo/api"
	"github.com/dfryer1193/teamdojo/dojo/application"
	"github.com/dfryer1193/teamdojo/dojo/domain"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const (
	trainingEntityName = "training"
	trainingsBasePath  = "/api/trainings"
)

type TrainingHandler struct {
	trainings   application.TrainingService
	maxPageSize int
}

func NewTrainingHandler(trainings application.TrainingService, maxPageSize int) *TrainingHandler {
	return &TrainingHandler{
		trainings:   trainings,
		maxPageSize: maxPageSize,
	}
}

// CreateTraining handles POST /api/trainings
func (h *TrainingHandler) CreateTraining(c *gin.Context) {
	var dto api.Training
	if err := c.ShouldBindJSON(&dto); err != nil {
		validationFailed(c, trainingEntityName, err)
		return
	}
	log.Debug().Str("title", dto.Title).Msg("REST request to save Training")

	if dto.ID != nil {
		badRequestAlert(c, "A new training cannot already have an ID", trainingEntityName, "idexists")
		return
	}

	saved, err := h.trainings.Save(c.Request.Context(), &dto)
	if err != nil {
		internalError(c, err)
		return
	}

	entityAlert(c, trainingEntityName, actionCreated, *saved.ID)
	c.Header("Location", trainingsBasePath+"/"+strconv.FormatInt(*saved.ID, 10))
	c.JSON(http.StatusCreated, saved)
}

// UpdateTraining handles PUT /api/trainings
func (h *TrainingHandler) UpdateTraining(c *gin.Context) {
	var dto api.Training
	if err := c.ShouldBindJSON(&dto); err != nil {
		validationFailed(c, trainingEntityName, err)
		return
	}
	log.Debug().Str("title", dto.Title).Msg("REST request to update Training")

	if dto.ID == nil {
		badRequestAlert(c, "Invalid id", trainingEntityName, "idnull")
		return
	}

	saved, err := h.trainings.Save(c.Request.Context(), &dto)
	if err != nil {
		internalError(c, err)
		return
	}

	entityAlert(c, trainingEntityName, actionUpdated, *saved.ID)
	c.JSON(http.StatusOK, saved)
}

// GetTrainings handles GET /api/trainings. eagerload=true loads the skills of every training.
func (h *TrainingHandler) GetTrainings(c *gin.Context) {
	query := c.Request.URL.Query()

	pageable, err := parsePageable(query, domain.TrainingSortProperties, h.maxPageSize)
	if err != nil {
		validationFailed(c, trainingEntityName, err)
		return
	}

	eager, _ := strconv.ParseBool(query.Get("eagerload"))
	log.Debug().Bool("eagerload", eager).Int("page", pageable.Page).Msg("REST request to get a page of Trainings")

	var page *domain.Page[api.Training]
	if eager {
		page, err = h.trainings.FindAllWithEagerRelationships(c.Request.Context(), pageable)
	} else {
		page, err = h.trainings.FindAll(c.Request.Context(), pageable)
	}
	if err != nil {
		internalError(c, err)
		return
	}

	writePage(c, trainingsBasePath, page)
}

// GetTraining handles GET /api/trainings/:id
func (h *TrainingHandler) GetTraining(c *gin.Context) {
	id, ok := idParam(c, trainingEntityName)
	if !ok {
		return
	}
	log.Debug().Int64("id", id).Msg("REST request to get Training")

	training, err := h.trainings.FindOne(c.Request.Context(), id)
	if errors.Is(err, domain.ErrNotFound) {
		notFound(c)
		return
	}
	if err != nil {
		internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, training)
}

// DeleteTraining handles DELETE /api/trainings/:id
func (h *TrainingHandler) DeleteTraining(c *gin.Context) {
	id, ok := idParam(c, trainingEntityName)
	if !ok {
		return
	}
	log.Debug().Int64("id", id).Msg("REST request to delete Training")

	if err := h.trainings.Delete(c.Request.Context(), id); err != nil {
		internalError(c, err)
		return
	}

	entityAlert(c, trainingEntityName, actionDeleted, id)
	c.Status(http.StatusOK)
}
