package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tedbus_server/server/common/log"
	"tedbus_server/server/common/transport/httpresp"
	"tedbus_server/server/domain"
	"tedbus_server/server/service"
)

type Handler struct {
	uploads *service.UploadService
	posts   *service.PostService
	orgs    *service.OrgService
}

func NewHandler(uploads *service.UploadService, posts *service.PostService, orgs *service.OrgService) *Handler {
	return &Handler{uploads: uploads, posts: posts, orgs: orgs}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, NewHealthResponse("ok"))
	})
	r.GET("/", h.root)
	r.GET("/upload", h.uploadForm)

	api := r.Group("/api")
	{
		api.POST("/files/upload", h.uploadFile)
		api.POST("/posts", h.createPost)
		api.GET("/posts", h.listPosts)
		api.POST("/orgs", h.createOrg)
		api.POST("/orgs/:id/documents", h.registerDocument)
		api.GET("/orgs/:id/documents", h.listDocuments)
	}
}

func (h *Handler) root(c *gin.Context) {
	c.JSON(http.StatusOK, httpresp.NewMessageResponse("Tedbus backend running"))
}

const uploadFormHTML = `<html><body>
<h3>Upload file (POST /api/files/upload)</h3>
<form action="/api/files/upload" enctype="multipart/form-data" method="post">
  <input name="file" type="file" />
  <input type="submit" value="Upload"/>
</form>
</body></html>`

// uploadForm serves a bare HTML form for manual testing.
func (h *Handler) uploadForm(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(uploadFormHTML))
}

func (h *Handler) uploadFile(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest,
			httpresp.NewErrorResponse(httpresp.KindRejectedInput, httpresp.MsgFileFieldRequired))
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest,
			httpresp.NewErrorResponse(httpresp.KindRejectedInput, "could not open uploaded file"))
		return
	}
	defer f.Close()

	result, err := h.uploads.Upload(c.Request.Context(),
		fileHeader.Filename, fileHeader.Header.Get("Content-Type"), f)
	if err != nil {
		status, body := uploadErrorResponse(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK,
		httpresp.NewUploadResponse("File uploaded successfully", result.Record.PublicURL, result.ID))
}

// uploadErrorResponse maps pipeline error kinds to statuses. Underlying
// causes never reach the response body.
func uploadErrorResponse(err error) (int, httpresp.ErrorResponse) {
	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		switch svcErr.Kind {
		case service.KindRejectedInput:
			return http.StatusBadRequest,
				httpresp.NewErrorResponse(httpresp.KindRejectedInput, svcErr.Message)
		case service.KindStorageWriteFailed:
			return http.StatusBadGateway,
				httpresp.NewErrorResponse(httpresp.KindStorageWriteFailed, svcErr.Message)
		case service.KindMetadataWriteFailed:
			return http.StatusInternalServerError,
				httpresp.NewErrorResponse(httpresp.KindMetadataWriteFailed, svcErr.Message)
		}
	}
	log.Errorf("unclassified upload error: %v", err)
	return http.StatusInternalServerError,
		httpresp.NewErrorResponse(httpresp.KindInternal, "internal error")
}

func (h *Handler) createPost(c *gin.Context) {
	var req struct {
		Title      string  `json:"title" binding:"required"`
		Content    string  `json:"content" binding:"required"`
		ImageURL   *string `json:"image_url"`
		AuthorName string  `json:"author_name" binding:"required"`
		AuthorPic  *string `json:"author_pic"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest,
			httpresp.NewErrorResponse(httpresp.KindRejectedInput, httpresp.MsgInvalidBody))
		return
	}
	id, err := h.posts.Create(c.Request.Context(), domain.Post{
		Title:      req.Title,
		Content:    req.Content,
		ImageURL:   req.ImageURL,
		AuthorName: req.AuthorName,
		AuthorPic:  req.AuthorPic,
	})
	if err != nil {
		log.Errorf("create post: %v", err)
		c.JSON(http.StatusInternalServerError,
			httpresp.NewErrorResponse(httpresp.KindInternal, "could not create post"))
		return
	}
	c.JSON(http.StatusOK, NewCreatedResponse(id))
}

func (h *Handler) listPosts(c *gin.Context) {
	posts, err := h.posts.List(c.Request.Context())
	if err != nil {
		log.Errorf("list posts: %v", err)
		c.JSON(http.StatusInternalServerError,
			httpresp.NewErrorResponse(httpresp.KindInternal, "could not list posts"))
		return
	}
	c.JSON(http.StatusOK, NewPostsResponse(posts))
}

func (h *Handler) createOrg(c *gin.Context) {
	var req struct {
		OrgName string `json:"org_name" binding:"required"`
		APIKey  string `json:"api_key" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest,
			httpresp.NewErrorResponse(httpresp.KindRejectedInput, httpresp.MsgInvalidBody))
		return
	}
	id, err := h.orgs.CreateOrg(c.Request.Context(), domain.Org{OrgName: req.OrgName, APIKey: req.APIKey})
	if err != nil {
		log.Errorf("create org: %v", err)
		c.JSON(http.StatusInternalServerError,
			httpresp.NewErrorResponse(httpresp.KindInternal, "could not create org"))
		return
	}
	c.JSON(http.StatusCreated, httpresp.NewIDResponse(id))
}

func (h *Handler) registerDocument(c *gin.Context) {
	var req struct {
		FileName string `json:"file_name" binding:"required"`
		FileType string `json:"file_type" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest,
			httpresp.NewErrorResponse(httpresp.KindRejectedInput, httpresp.MsgInvalidBody))
		return
	}
	id, err := h.orgs.RegisterDocument(c.Request.Context(), domain.Document{
		OrgID:    c.Param("id"),
		FileName: req.FileName,
		FileType: req.FileType,
	})
	if err != nil {
		log.Errorf("register document: %v", err)
		c.JSON(http.StatusInternalServerError,
			httpresp.NewErrorResponse(httpresp.KindInternal, "could not register document"))
		return
	}
	c.JSON(http.StatusCreated, httpresp.NewIDResponse(id))
}

func (h *Handler) listDocuments(c *gin.Context) {
	docs, err := h.orgs.ListDocuments(c.Request.Context(), c.Param("id"))
	if err != nil {
		log.Errorf("list documents: %v", err)
		c.JSON(http.StatusInternalServerError,
			httpresp.NewErrorResponse(httpresp.KindInternal, "could not list documents"))
		return
	}
	c.JSON(http.StatusOK, NewDocumentsResponse(docs))
}
