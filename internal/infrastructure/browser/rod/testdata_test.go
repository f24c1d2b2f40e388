package rod

// Test pages served by httptest.
const (
	BasicHTML = `<!DOCTYPE html>
<html>
<head><title>Test Page</title></head>
<body>
	<h1>Hello World</h1>
</body>
</html>`

	OverlayHTML = `<!DOCTYPE html>
<html>
<body>
	<div class="waffle-borderless-embedded-object-overlay" aria-label="Run report (weekly)" style="width:200px;height:80px">
		<div class="waffle-borderless-embedded-object-container" style="width:200px;height:80px"></div>
	</div>
	<div class="waffle-borderless-embedded-object-overlay" aria-label="Other &quot;quoted&quot; chart" style="width:200px;height:80px"></div>
	<div id="result"></div>
	<script>
		document.querySelector('.waffle-borderless-embedded-object-container').addEventListener('click', function() {
			document.getElementById('result').textContent = 'Clicked!';
		});
	</script>
</body>
</html>`

	// FrameHostHTML embeds the page served at /inner.
	FrameHostHTML = `<!DOCTYPE html>
<html>
<body>
	<iframe name="sheet" src="/inner" width="600" height="400"></iframe>
</body>
</html>`

	DialogHTML = `<!DOCTYPE html>
<html>
<body>
	<button id="ask" onclick="document.getElementById('answer').textContent = String(confirm('Run script?'))">Ask</button>
	<div id="answer"></div>
</body>
</html>`

	SurfaceHTML = `<!DOCTYPE html>
<html>
<body>
	<div class="javascriptMaterialdesignGm3WizDialog-dialog__surface" id="surface">
		<div role="button" aria-labelledby="lbl"><span class="javascriptMaterialdesignGm3WizRipple-ripple"></span><span id="lbl">취소</span></div>
		<button aria-label="OK">확인</button>
	</div>
	<script>
		document.querySelector('[role="button"]').addEventListener('click', function() {
			document.getElementById('surface').remove();
		});
	</script>
</body>
</html>`
)
