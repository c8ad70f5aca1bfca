package cmd

// indexHTML is the single-page UI served at /. It connects to /ws, drives
// the scheduler with start/pause/step/reset/load commands, and renders the
// queue levels and the trace as update messages arrive.
const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>MLFQ Scheduler Simulator</title>
<style>
  body { font-family: monospace; background: #1e1e1e; color: #ddd; margin: 20px; }
  h1 { font-size: 18px; }
  .bar { margin: 10px 0; }
  button { font-family: monospace; margin-right: 6px; padding: 4px 12px; }
  input { font-family: monospace; width: 420px; padding: 4px; }
  .levels { display: flex; gap: 12px; margin: 12px 0; }
  .level { border: 1px solid #555; padding: 8px; min-width: 180px; }
  .level h2 { font-size: 14px; margin: 0 0 6px 0; color: #9cf; }
  .proc { background: #2d4f2d; border: 1px solid #4a4; margin: 3px 0; padding: 3px 6px; }
  #trace { border: 1px solid #555; height: 260px; overflow-y: scroll; padding: 6px; white-space: pre; }
  #summary { color: #fc6; white-space: pre; }
  .stat { color: #9cf; margin-right: 18px; }
</style>
</head>
<body>
<h1>MLFQ Scheduler Simulator</h1>
<div class="bar">
  <span class="stat">clock: <span id="clock">0</span></span>
  <span class="stat">live: <span id="live">0</span></span>
  <span class="stat">state: <span id="state">paused</span></span>
</div>
<div class="bar">
  <button onclick="send('start')">Start</button>
  <button onclick="send('pause')">Pause</button>
  <button onclick="send('step')">Step</button>
  <button onclick="send('reset')">Reset</button>
</div>
<div class="bar">
  <input id="command" placeholder="spin 10000 &amp;; spin 200000 &amp;;">
  <button onclick="load()">Load</button>
</div>
<div class="levels" id="levels"></div>
<div id="trace"></div>
<div id="summary"></div>
<script>
var ws = new WebSocket("ws://" + location.host + "/ws");
var traceEl = document.getElementById("trace");

function send(type) {
  ws.send(JSON.stringify({type: type}));
}

function load() {
  var cmd = document.getElementById("command").value;
  if (cmd) {
    ws.send(JSON.stringify({type: "load", command: cmd}));
    traceEl.textContent = "";
    document.getElementById("summary").textContent = "";
  }
}

function renderQueues(queues) {
  var holder = document.getElementById("levels");
  holder.innerHTML = "";
  (queues || []).forEach(function(lvl) {
    var div = document.createElement("div");
    div.className = "level";
    var h = document.createElement("h2");
    h.textContent = lvl.label + " (quantum " + lvl.quantum + ")";
    div.appendChild(h);
    (lvl.procs || []).forEach(function(p) {
      var pd = document.createElement("div");
      pd.className = "proc";
      pd.textContent = "pid " + p.pid + " " + p.name +
        " work=" + p.work_left + "ms q=" + p.ticks_left;
      div.appendChild(pd);
    });
    holder.appendChild(div);
  });
}

ws.onmessage = function(evt) {
  var msg = JSON.parse(evt.data);
  if (msg.clock !== undefined) {
    document.getElementById("clock").textContent = msg.clock;
    document.getElementById("live").textContent = msg.live;
  }
  if (msg.type === "status") {
    document.getElementById("state").textContent = msg.running ? "running" : "paused";
    if (msg.command) {
      document.getElementById("command").value = msg.command;
    }
  } else if (msg.type === "update") {
    renderQueues(msg.queues);
    (msg.lines || []).forEach(function(line) {
      traceEl.textContent += line + "\n";
    });
    while (traceEl.textContent.length > 200000) {
      var cut = traceEl.textContent.indexOf("\n");
      traceEl.textContent = traceEl.textContent.slice(cut + 1);
    }
    traceEl.scrollTop = traceEl.scrollHeight;
  } else if (msg.type === "summary") {
    document.getElementById("summary").textContent =
      JSON.stringify(msg.summary, null, 2);
  }
};
</script>
</body>
</html>
`
