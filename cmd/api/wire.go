//go:build wireinject
// +build wireinject

// Wire依赖注入配置文件
//
// 修改Provider后重新生成：
//
//	wire gen ./cmd/api
//
// 生成结果为wire_gen.go，与本文件互斥编译（wireinject构建标签）
package main

import (
	"github.com/google/wire"

	appbook "github.com/xiebiao/bookreviews/internal/application/book"
	appreview "github.com/xiebiao/bookreviews/internal/application/review"
	"github.com/xiebiao/bookreviews/internal/domain/book"
	"github.com/xiebiao/bookreviews/internal/domain/rating"
	"github.com/xiebiao/bookreviews/internal/domain/review"
	"github.com/xiebiao/bookreviews/internal/infrastructure/config"
	"github.com/xiebiao/bookreviews/internal/infrastructure/persistence"
	"github.com/xiebiao/bookreviews/internal/interface/http/handler"
)

// ========================================
// Wire Provider Sets (依赖分组)
// ========================================

// infrastructureSet 基础设施层依赖
// 存储驱动由database.driver决定（mongo/mysql/memory），Top榜缓存由cache.enabled决定
var infrastructureSet = wire.NewSet(
	persistence.NewStores,
	provideTopRatedCache,
)

// repositorySet 仓储层依赖
var repositorySet = wire.NewSet(
	persistence.ProvideBookRepository,
	persistence.ProvideReviewRepository,
)

// domainSet 领域层依赖
var domainSet = wire.NewSet(
	review.NewService,
	provideReviewCascade,
	book.NewService,
	rating.NewAggregator,
)

// applicationSet 应用层依赖
var applicationSet = wire.NewSet(
	appbook.NewCreateBookUseCase,
	appbook.NewGetBookUseCase,
	appbook.NewUpdateBookUseCase,
	appbook.NewListBooksUseCase,
	appbook.NewTopRatedUseCase,
	appbook.NewDeleteBookUseCase,
	appreview.NewCreateReviewUseCase,
	appreview.NewListReviewsUseCase,
	appreview.NewUpdateReviewUseCase,
	appreview.NewDeleteReviewUseCase,
)

// handlerSet HTTP处理器依赖
var handlerSet = wire.NewSet(
	handler.NewBookHandler,
	handler.NewReviewHandler,
	provideRouter,
)

// ========================================
// Wire Injector (依赖注入器)
// ========================================

// InitializeApp 初始化整个应用
//
// 依赖链：
// *App 需要 → *gin.Engine
// *gin.Engine 需要 → *handler.BookHandler、*handler.ReviewHandler
// *handler.BookHandler 需要 → *appbook.DeleteBookUseCase 等
// *appbook.DeleteBookUseCase 需要 → book.Service、rating.Cache
// book.Service 需要 → book.Repository、book.ReviewCascade
// book.Repository 需要 → *persistence.Stores
// *persistence.Stores 需要 → *config.Config
//
// 返回的cleanup按创建的逆序关闭Redis和数据库连接
func InitializeApp(cfg *config.Config) (*App, func(), error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		applicationSet,
		handlerSet,
		newApp,
	)
	return nil, nil, nil
}
