package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"resume-screener/internal/config"
	"resume-screener/internal/storage/models"
	"resume-screener/internal/tracing"
	"resume-screener/internal/types"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

var mysqlTracer = otel.Tracer("resume-screener/storage/mysql")

type spanContextKey struct{}

// GormTracingPlugin GORM插件，为每个数据库操作创建span
type GormTracingPlugin struct {
	tracer trace.Tracer
	dbName string
}

// NewGormTracingPlugin 创建GORM追踪插件
func NewGormTracingPlugin(dbName string) *GormTracingPlugin {
	return &GormTracingPlugin{tracer: mysqlTracer, dbName: dbName}
}

// Name 返回插件名称
func (p *GormTracingPlugin) Name() string {
	return "GormOpenTelemetryPlugin"
}

// Initialize 注册GORM回调以启用追踪
func (p *GormTracingPlugin) Initialize(db *gorm.DB) error {
	cb := db.Callback()
	steps := []struct {
		op       string
		register func(name string, before bool, fn func(*gorm.DB)) error
	}{
		{"CREATE", func(name string, before bool, fn func(*gorm.DB)) error {
			if before {
				return cb.Create().Before("gorm:create").Register(name, fn)
			}
			return cb.Create().After("gorm:create").Register(name, fn)
		}},
		{"SELECT", func(name string, before bool, fn func(*gorm.DB)) error {
			if before {
				return cb.Query().Before("gorm:query").Register(name, fn)
			}
			return cb.Query().After("gorm:query").Register(name, fn)
		}},
		{"UPDATE", func(name string, before bool, fn func(*gorm.DB)) error {
			if before {
				return cb.Update().Before("gorm:update").Register(name, fn)
			}
			return cb.Update().After("gorm:update").Register(name, fn)
		}},
		{"DELETE", func(name string, before bool, fn func(*gorm.DB)) error {
			if before {
				return cb.Delete().Before("gorm:delete").Register(name, fn)
			}
			return cb.Delete().After("gorm:delete").Register(name, fn)
		}},
	}
	for _, s := range steps {
		if err := s.register("otel:before_"+s.op, true, p.before(s.op)); err != nil {
			return err
		}
		if err := s.register("otel:after_"+s.op, false, p.after()); err != nil {
			return err
		}
	}
	return nil
}

// before 返回在GORM操作之前执行的回调函数
func (p *GormTracingPlugin) before(operation string) func(db *gorm.DB) {
	return func(db *gorm.DB) {
		ctx := db.Statement.Context
		if ctx == nil {
			ctx = context.Background()
		}

		tableName := db.Statement.Table
		if tableName == "" {
			tableName = "unknown"
		}

		opts := []trace.SpanStartOption{
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(
				semconv.DBSystemMySQL,
				attribute.String("db.name", p.dbName),
				attribute.String("db.operation", operation),
				attribute.String("db.sql.table", tableName),
			),
		}
		if sql := db.Statement.SQL.String(); sql != "" {
			opts = append(opts, trace.WithAttributes(attribute.String("db.statement", tracing.SafeSQL(sql))))
		}

		newCtx, span := p.tracer.Start(ctx, fmt.Sprintf("%s %s", operation, tableName), opts...)
		db.Statement.Context = context.WithValue(newCtx, spanContextKey{}, span)
	}
}

// after 返回在GORM操作之后执行的回调函数
func (p *GormTracingPlugin) after() func(db *gorm.DB) {
	return func(db *gorm.DB) {
		span, ok := db.Statement.Context.Value(spanContextKey{}).(trace.Span)
		if !ok {
			return
		}
		defer span.End()

		span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
		switch {
		case db.Error == nil:
			span.SetStatus(codes.Ok, "")
		case errors.Is(db.Error, gorm.ErrRecordNotFound):
			// 查不到记录属于正常业务结果
			span.SetAttributes(attribute.String("error.type", "record_not_found"))
			span.SetStatus(codes.Ok, "record not found")
		default:
			tracing.RecordError(span, db.Error, tracing.ErrorTypeDB)
		}
	}
}

// MySQL 提供关系数据库连接
type MySQL struct {
	db  *gorm.DB
	cfg *config.MySQLConfig
}

// NewMySQL 创建MySQL客户端并迁移表结构
func NewMySQL(cfg *config.MySQLConfig) (*MySQL, error) {
	if cfg == nil {
		return nil, fmt.Errorf("MySQL配置不能为空")
	}

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local&timeout=%ds&readTimeout=%ds&writeTimeout=%ds",
		cfg.Username, cfg.Password, cfg.Host, cfg.Port, cfg.Database,
		cfg.ConnectTimeoutSeconds, cfg.ReadTimeoutSeconds, cfg.WriteTimeoutSeconds)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:      gormlogger.Default.LogMode(gormLogLevel(cfg.LogLevel)),
		PrepareStmt: true,
	})
	if err != nil {
		return nil, fmt.Errorf("连接MySQL失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取底层 sql.DB 失败: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)

	if err := db.Use(NewGormTracingPlugin(cfg.Database)); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("注册追踪插件失败: %w", err)
	}

	silent := db.Session(&gorm.Session{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	if err := silent.AutoMigrate(&models.CandidateRecordRow{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("自动迁移数据库结构失败: %w", err)
	}

	return &MySQL{db: db, cfg: cfg}, nil
}

// gormLogLevel 1-4 对应 Silent/Error/Warn/Info
func gormLogLevel(level int) gormlogger.LogLevel {
	switch level {
	case 1:
		return gormlogger.Silent
	case 2:
		return gormlogger.Error
	case 3:
		return gormlogger.Warn
	default:
		return gormlogger.Info
	}
}

// DB 返回GORM数据库连接实例
func (m *MySQL) DB() *gorm.DB {
	return m.db
}

// Close 关闭数据库连接
func (m *MySQL) Close() error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return fmt.Errorf("获取底层 sql.DB 失败: %w", err)
	}
	return sqlDB.Close()
}

// MySQLStore candidate_records 表上的记录存储
type MySQLStore struct {
	db *gorm.DB
}

// NewMySQLStore 创建MySQL记录存储
func NewMySQLStore(m *MySQL) *MySQLStore {
	return &MySQLStore{db: m.db}
}

// Save 按文档标识插入或整行覆盖
func (s *MySQLStore) Save(ctx context.Context, result *types.AnalysisResult) error {
	row, err := rowFromResult(result)
	if err != nil {
		return err
	}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "document_id"}},
		UpdateAll: true,
	}).Create(row).Error
	if err != nil {
		return fmt.Errorf("写入candidate_records失败: %w", err)
	}
	return nil
}

// Get 按文档标识查询
func (s *MySQLStore) Get(ctx context.Context, documentID string) (*types.AnalysisResult, error) {
	var row models.CandidateRecordRow
	if err := s.db.WithContext(ctx).First(&row, "document_id = ?", documentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("查询candidate_records失败: %w", err)
	}
	return decodeResult(row.ResultJSON)
}

// List 按处理时间升序返回全部记录
func (s *MySQLStore) List(ctx context.Context) ([]*types.AnalysisResult, error) {
	var rows []models.CandidateRecordRow
	if err := s.db.WithContext(ctx).Order("processed_at ASC, document_id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("查询candidate_records失败: %w", err)
	}
	results := make([]*types.AnalysisResult, 0, len(rows))
	for _, row := range rows {
		r, err := decodeResult(row.ResultJSON)
		if err != nil {
			continue
		}
		results = append(results, r)
	}
	return results, nil
}

// Delete 按文档标识删除
func (s *MySQLStore) Delete(ctx context.Context, documentID string) error {
	tx := s.db.WithContext(ctx).Where("document_id = ?", documentID).Delete(&models.CandidateRecordRow{})
	if tx.Error != nil {
		return fmt.Errorf("删除candidate_records失败: %w", tx.Error)
	}
	if tx.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// rowFromResult 把分析结果展开为表行
func rowFromResult(result *types.AnalysisResult) (*models.CandidateRecordRow, error) {
	data, err := encodeResult(result)
	if err != nil {
		return nil, err
	}
	row := &models.CandidateRecordRow{
		DocumentID:   result.DocumentID,
		AnalysisID:   result.Metadata.AnalysisID,
		SourcePath:   result.Metadata.SourcePath,
		Page:         result.Metadata.Page,
		AnalysisPath: string(result.Path),
		ModelUsed:    result.Metadata.ModelUsed,
		ResultJSON:   datatypes.JSON(data),
		ProcessedAt:  result.Metadata.ProcessedAt,
	}
	if result.Record != nil {
		row.CandidateName = result.Record.Name
		row.Email = result.Record.Contact.Email
		row.Phone = result.Record.Contact.Phone
		skills, err := json.Marshal(result.Record.Skills.Flatten())
		if err != nil {
			return nil, fmt.Errorf("序列化技能失败: %w", err)
		}
		row.SkillsJSON = datatypes.JSON(skills)
	}
	return row, nil
}
