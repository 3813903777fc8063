package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fundingdesk/ocr-underwriting/client"
	"github.com/fundingdesk/ocr-underwriting/config"
	"github.com/fundingdesk/ocr-underwriting/handler"
	"github.com/fundingdesk/ocr-underwriting/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	if err := config.InitLogger(cfg.Log); err != nil {
		panic(err)
	}
	defer zap.L().Sync()

	// gosseract reads the prefix from the environment on client creation.
	os.Setenv("TESSDATA_PREFIX", cfg.OCR.TessdataPrefix)

	tess := client.NewTesseractClient(cfg.OCR.TessdataPrefix, cfg.OCR.Language, cfg.OCR.PageSegMode)
	paddle := client.NewPaddleClient(cfg.OCR.PaddleURL)
	pdf := service.NewPDFProcessor(cfg.OCR.PdfToPpmPath)

	acquirer := service.NewAcquirer(pdf, tess, paddle, cfg.OCR, cfg.Extraction)
	apps := service.NewApplicationService(acquirer, cfg.Extraction.AnchorScoreFloor, cfg.Extraction.MaxAnchorHits)
	stmts := service.NewStatementService(acquirer, cfg.Extraction)

	appHandler := handler.NewApplicationHandler(apps)
	stmtHandler := handler.NewStatementHandler(stmts)

	router := gin.Default()
	router.MaxMultipartMemory = cfg.Server.MaxUploadMB << 20

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	{
		v1.POST("/applications/extract", appHandler.Extract)
		v1.POST("/statements/summarize", stmtHandler.Summarize)
		v1.POST("/statements/aggregate", stmtHandler.Aggregate)
	}

	zap.L().Info("server starting", zap.String("port", cfg.Server.Port))
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		zap.L().Fatal("server exited", zap.Error(err))
	}
}
